package assembler

import (
	"fmt"

	"github.com/kestrel-systems/retrocore/cpu"
)

// Symbol represents a label or variable in the assembly
type Symbol struct {
	Name      string
	Value     uint16
	IsDefined bool
}

// Assembler holds the state of a two-pass assembly run.
type Assembler struct {
	symbols     map[string]*Symbol
	currentPass int
	pc          uint16
	output      []byte
}

func NewAssembler() *Assembler {
	return &Assembler{symbols: make(map[string]*Symbol)}
}

// Assemble runs both passes over source and leaves the machine code in
// GetOutput. Pass 1 collects label addresses; pass 2 resolves operands
// against those addresses and emits bytes via cpu.Encode.
func (a *Assembler) Assemble(source string) error {
	a.currentPass = 1
	a.pc = 0
	a.output = nil

	lexer := NewLexer(source)
	parser := NewParser(lexer, a)

	for {
		line, err := parser.ParseLine()
		if err != nil {
			return err
		}
		if line == nil {
			break
		}

		if line.Label != "" {
			a.symbols[line.Label] = &Symbol{Name: line.Label, Value: a.pc, IsDefined: true}
		}
		if line.Directive != "" {
			if handler, exists := directiveHandlers[line.Directive]; exists {
				if err := handler(a, line.Operand); err != nil {
					return err
				}
			}
		}
		if line.Instruction != "" {
			if op, ok := cpu.Encode(line.Instruction, line.AddressMode); ok {
				_, _, size, _ := cpu.Lookup(op)
				a.pc += uint16(size)
			}
		}
	}

	a.currentPass = 2
	a.pc = 0
	lexer = NewLexer(source)
	parser = NewParser(lexer, a)

	for {
		line, err := parser.ParseLine()
		if err != nil {
			return err
		}
		if line == nil {
			break
		}
		if err := a.generateCode(line); err != nil {
			return err
		}
	}

	return nil
}

func (a *Assembler) generateCode(line *Line) error {
	if line.Directive != "" {
		if handler, exists := directiveHandlers[line.Directive]; exists {
			return handler(a, line.Operand)
		}
		return nil
	}

	if line.Instruction == "" {
		return nil
	}

	if line.SymbolName != "" {
		if symbol, exists := a.symbols[line.SymbolName]; exists {
			line.Value = symbol.Value
			if line.Value < 0x100 {
				var optimized cpu.AddrKind
				switch line.AddressMode {
				case cpu.KindAbsolute:
					optimized = cpu.KindZeroPage
				case cpu.KindAbsoluteX:
					optimized = cpu.KindZeroPageX
				case cpu.KindAbsoluteY:
					optimized = cpu.KindZeroPageY
				}
				if optimized != line.AddressMode {
					if _, supported := cpu.Encode(line.Instruction, optimized); supported {
						line.AddressMode = optimized
					}
				}
			}
		}
	}

	op, ok := cpu.Encode(line.Instruction, line.AddressMode)
	if !ok {
		return fmt.Errorf("invalid addressing mode for instruction %s", line.Instruction)
	}
	_, kind, size, _ := cpu.Lookup(op)

	a.output = append(a.output, op)

	if kind == cpu.KindRelative {
		nextPC := a.pc + 2
		offset := int16(line.Value) - int16(nextPC)
		if offset < -128 || offset > 127 {
			return fmt.Errorf("branch target out of range (%d bytes)", offset)
		}
		a.output = append(a.output, uint8(offset))
	} else {
		switch size {
		case 2:
			a.output = append(a.output, uint8(line.Value))
		case 3:
			a.output = append(a.output, uint8(line.Value), uint8(line.Value>>8))
		}
	}

	a.pc += uint16(size)
	return nil
}

// GetOutput returns the assembled machine code from the most recent
// Assemble call.
func (a *Assembler) GetOutput() []byte {
	return a.output
}
