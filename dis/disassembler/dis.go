// Package disassembler turns a memory image back into 6502/65C02
// mnemonics, one instruction at a time, using the CPU package's own
// opcode table rather than a second copy of it.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/kestrel-systems/retrocore/cpu"
)

// Memory is whatever the disassembler reads instruction bytes from.
// memory.Banked.Peek satisfies this.
type Memory interface {
	Peek(addr uint16) uint8
}

// Location is one decoded instruction: its address, raw bytes, and
// formatted text.
type Location struct {
	PC       uint16
	Raw      [3]byte
	Mnemonic string
	Kind     cpu.AddrKind
	Bytes    uint8
	Bad      bool
}

// Size returns the instruction's total length in bytes.
func (l Location) Size() int {
	return int(l.Bytes)
}

// Text formats the instruction's mnemonic and operand.
func (l Location) Text() string {
	if l.Bad {
		return fmt.Sprintf("db $%02X        ; invalid opcode", l.Raw[0])
	}
	operand := formatOperand(l)
	if operand == "" {
		return l.Mnemonic
	}
	return fmt.Sprintf("%s %s", l.Mnemonic, operand)
}

// String renders one disassembled line in the classic hex-dump +
// mnemonic layout.
func (l Location) String() string {
	var hex strings.Builder
	for i := 0; i < int(l.Bytes); i++ {
		if i > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02X", l.Raw[i])
	}
	return fmt.Sprintf("$%04X: %-8s  %s", l.PC, hex.String(), l.Text())
}

func formatOperand(l Location) string {
	lo, hi := l.Raw[1], l.Raw[2]
	switch l.Kind {
	case cpu.KindImplied:
		return ""
	case cpu.KindAccumulator:
		return "A"
	case cpu.KindImmediate:
		return fmt.Sprintf("#$%02X", lo)
	case cpu.KindZeroPage:
		return fmt.Sprintf("$%02X", lo)
	case cpu.KindZeroPageX:
		return fmt.Sprintf("$%02X,X", lo)
	case cpu.KindZeroPageY:
		return fmt.Sprintf("$%02X,Y", lo)
	case cpu.KindAbsolute:
		return fmt.Sprintf("$%02X%02X", hi, lo)
	case cpu.KindAbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", hi, lo)
	case cpu.KindAbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", hi, lo)
	case cpu.KindIndirect:
		return fmt.Sprintf("($%02X%02X)", hi, lo)
	case cpu.KindIndexedIndirect:
		return fmt.Sprintf("($%02X,X)", lo)
	case cpu.KindIndirectIndexed:
		return fmt.Sprintf("($%02X),Y", lo)
	case cpu.KindRelative:
		offset := int8(lo)
		target := l.PC + 2 + uint16(offset)
		return fmt.Sprintf("$%04X", target)
	default:
		return "???"
	}
}

// Decode disassembles the single instruction at pc.
func Decode(mem Memory, pc uint16) Location {
	opcode := mem.Peek(pc)
	mnemonic, kind, bytes, bad := cpu.Lookup(opcode)

	l := Location{PC: pc, Mnemonic: mnemonic, Kind: kind, Bytes: bytes, Bad: bad}
	l.Raw[0] = opcode
	for i := uint8(1); i < bytes; i++ {
		l.Raw[i] = mem.Peek(pc + uint16(i))
	}
	return l
}

// Range disassembles count instructions starting at pc.
func Range(mem Memory, pc uint16, count int) []Location {
	out := make([]Location, 0, count)
	for i := 0; i < count; i++ {
		loc := Decode(mem, pc)
		out = append(out, loc)
		pc += uint16(loc.Size())
	}
	return out
}

// Listing renders count instructions starting at pc as a multi-line
// string, one instruction per line.
func Listing(mem Memory, pc uint16, count int) string {
	var out strings.Builder
	for _, loc := range Range(mem, pc, count) {
		out.WriteString(loc.String())
		out.WriteByte('\n')
	}
	return out.String()
}
