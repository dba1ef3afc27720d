package cpu

import "reflect"

// opcode is one 256-entry table slot: which resolver fetches the
// operand, which handler acts on it, and the base cycle cost before
// any page-cross penalty. Bad marks a slot nothing below wires up —
// decoded as the BAD sentinel instruction, logged once and executed as
// a NOP, per spec.md §7's MalformedInstruction rule.
type opcode struct {
	Mode     AddrFunc
	Handler  Handler
	Cycles   uint8
	Mnemonic string
	Kind     AddrKind
	Bytes    uint8
	Bad      bool
}

// AddrKind names an addressing mode for display purposes (operand
// formatting in the disassembler and assembler), independent of the
// AddrFunc resolver that actually executes it.
type AddrKind uint8

const (
	KindImplied AddrKind = iota
	KindAccumulator
	KindImmediate
	KindZeroPage
	KindZeroPageX
	KindZeroPageY
	KindAbsolute
	KindAbsoluteX
	KindAbsoluteY
	KindIndirect
	KindIndexedIndirect
	KindIndirectIndexed
	KindRelative
)

// funcPtr identifies a package-level AddrFunc by its entry point, so
// classifyMode can recognize which resolver def() was given without
// opcodes.go having to repeat that classification by hand at every
// call site.
func funcPtr(f AddrFunc) uintptr {
	return reflect.ValueOf(f).Pointer()
}

var modeKinds = map[uintptr]struct {
	kind  AddrKind
	bytes uint8
}{
	funcPtr(addrImplied):         {KindImplied, 1},
	funcPtr(addrAccumulator):     {KindAccumulator, 1},
	funcPtr(addrImmediate):       {KindImmediate, 2},
	funcPtr(addrZeroPage):        {KindZeroPage, 2},
	funcPtr(addrZeroPageX):       {KindZeroPageX, 2},
	funcPtr(addrZeroPageY):       {KindZeroPageY, 2},
	funcPtr(addrAbsolute):        {KindAbsolute, 3},
	funcPtr(addrAbsoluteX):       {KindAbsoluteX, 3},
	funcPtr(addrAbsoluteY):       {KindAbsoluteY, 3},
	funcPtr(addrIndirect):        {KindIndirect, 3},
	funcPtr(addrIndexedIndirect): {KindIndexedIndirect, 2},
	funcPtr(addrIndirectIndexed): {KindIndirectIndexed, 2},
	funcPtr(addrRelative):        {KindRelative, 2},
}

func classifyMode(mode AddrFunc) (AddrKind, uint8) {
	info, ok := modeKinds[funcPtr(mode)]
	if !ok {
		return KindImplied, 1
	}
	return info.kind, info.bytes
}

var opcodeTable [256]opcode

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcode{Mode: addrImplied, Handler: opNOP, Cycles: 2, Mnemonic: "BAD", Bad: true, Bytes: 1}
	}

	def := func(op byte, mnemonic string, mode AddrFunc, handler Handler, cycles uint8) {
		kind, bytes := classifyMode(mode)
		opcodeTable[op] = opcode{Mode: mode, Handler: handler, Cycles: cycles, Mnemonic: mnemonic, Kind: kind, Bytes: bytes}
	}

	def(0xA9, "LDA", addrImmediate, opLDA, 2)
	def(0xA5, "LDA", addrZeroPage, opLDA, 3)
	def(0xB5, "LDA", addrZeroPageX, opLDA, 4)
	def(0xAD, "LDA", addrAbsolute, opLDA, 4)
	def(0xBD, "LDA", addrAbsoluteX, opLDA, 4)
	def(0xB9, "LDA", addrAbsoluteY, opLDA, 4)
	def(0xA1, "LDA", addrIndexedIndirect, opLDA, 6)
	def(0xB1, "LDA", addrIndirectIndexed, opLDA, 5)

	def(0xA2, "LDX", addrImmediate, opLDX, 2)
	def(0xA6, "LDX", addrZeroPage, opLDX, 3)
	def(0xB6, "LDX", addrZeroPageY, opLDX, 4)
	def(0xAE, "LDX", addrAbsolute, opLDX, 4)
	def(0xBE, "LDX", addrAbsoluteY, opLDX, 4)

	def(0xA0, "LDY", addrImmediate, opLDY, 2)
	def(0xA4, "LDY", addrZeroPage, opLDY, 3)
	def(0xB4, "LDY", addrZeroPageX, opLDY, 4)
	def(0xAC, "LDY", addrAbsolute, opLDY, 4)
	def(0xBC, "LDY", addrAbsoluteX, opLDY, 4)

	def(0x85, "STA", addrZeroPage, opSTA, 3)
	def(0x95, "STA", addrZeroPageX, opSTA, 4)
	def(0x8D, "STA", addrAbsolute, opSTA, 4)
	def(0x9D, "STA", addrAbsoluteX, opSTA, 5)
	def(0x99, "STA", addrAbsoluteY, opSTA, 5)
	def(0x81, "STA", addrIndexedIndirect, opSTA, 6)
	def(0x91, "STA", addrIndirectIndexed, opSTA, 6)

	def(0x86, "STX", addrZeroPage, opSTX, 3)
	def(0x96, "STX", addrZeroPageY, opSTX, 4)
	def(0x8E, "STX", addrAbsolute, opSTX, 4)

	def(0x84, "STY", addrZeroPage, opSTY, 3)
	def(0x94, "STY", addrZeroPageX, opSTY, 4)
	def(0x8C, "STY", addrAbsolute, opSTY, 4)

	def(0x64, "STZ", addrZeroPage, opSTZ, 3)
	def(0x74, "STZ", addrZeroPageX, opSTZ, 4)
	def(0x9C, "STZ", addrAbsolute, opSTZ, 4)
	def(0x9E, "STZ", addrAbsoluteX, opSTZ, 5)

	def(0xAA, "TAX", addrImplied, opTAX, 2)
	def(0xA8, "TAY", addrImplied, opTAY, 2)
	def(0xBA, "TSX", addrImplied, opTSX, 2)
	def(0x8A, "TXA", addrImplied, opTXA, 2)
	def(0x9A, "TXS", addrImplied, opTXS, 2)
	def(0x98, "TYA", addrImplied, opTYA, 2)

	def(0x48, "PHA", addrImplied, opPHA, 3)
	def(0x08, "PHP", addrImplied, opPHP, 3)
	def(0xDA, "PHX", addrImplied, opPHX, 3)
	def(0x5A, "PHY", addrImplied, opPHY, 3)
	def(0x68, "PLA", addrImplied, opPLA, 4)
	def(0x28, "PLP", addrImplied, opPLP, 4)
	def(0xFA, "PLX", addrImplied, opPLX, 4)
	def(0x7A, "PLY", addrImplied, opPLY, 4)

	def(0x69, "ADC", addrImmediate, opADC, 2)
	def(0x65, "ADC", addrZeroPage, opADC, 3)
	def(0x75, "ADC", addrZeroPageX, opADC, 4)
	def(0x6D, "ADC", addrAbsolute, opADC, 4)
	def(0x7D, "ADC", addrAbsoluteX, opADC, 4)
	def(0x79, "ADC", addrAbsoluteY, opADC, 4)
	def(0x61, "ADC", addrIndexedIndirect, opADC, 6)
	def(0x71, "ADC", addrIndirectIndexed, opADC, 5)

	def(0xE9, "SBC", addrImmediate, opSBC, 2)
	def(0xE5, "SBC", addrZeroPage, opSBC, 3)
	def(0xF5, "SBC", addrZeroPageX, opSBC, 4)
	def(0xED, "SBC", addrAbsolute, opSBC, 4)
	def(0xFD, "SBC", addrAbsoluteX, opSBC, 4)
	def(0xF9, "SBC", addrAbsoluteY, opSBC, 4)
	def(0xE1, "SBC", addrIndexedIndirect, opSBC, 6)
	def(0xF1, "SBC", addrIndirectIndexed, opSBC, 5)

	def(0xC9, "CMP", addrImmediate, opCMP, 2)
	def(0xC5, "CMP", addrZeroPage, opCMP, 3)
	def(0xD5, "CMP", addrZeroPageX, opCMP, 4)
	def(0xCD, "CMP", addrAbsolute, opCMP, 4)
	def(0xDD, "CMP", addrAbsoluteX, opCMP, 4)
	def(0xD9, "CMP", addrAbsoluteY, opCMP, 4)
	def(0xC1, "CMP", addrIndexedIndirect, opCMP, 6)
	def(0xD1, "CMP", addrIndirectIndexed, opCMP, 5)

	def(0xE0, "CPX", addrImmediate, opCPX, 2)
	def(0xE4, "CPX", addrZeroPage, opCPX, 3)
	def(0xEC, "CPX", addrAbsolute, opCPX, 4)

	def(0xC0, "CPY", addrImmediate, opCPY, 2)
	def(0xC4, "CPY", addrZeroPage, opCPY, 3)
	def(0xCC, "CPY", addrAbsolute, opCPY, 4)

	def(0x3A, "DEC", addrAccumulator, opDEC, 2)
	def(0xC6, "DEC", addrZeroPage, opDEC, 5)
	def(0xD6, "DEC", addrZeroPageX, opDEC, 6)
	def(0xCE, "DEC", addrAbsolute, opDEC, 6)
	def(0xDE, "DEC", addrAbsoluteX, opDEC, 7)

	def(0x1A, "INC", addrAccumulator, opINC, 2)
	def(0xE6, "INC", addrZeroPage, opINC, 5)
	def(0xF6, "INC", addrZeroPageX, opINC, 6)
	def(0xEE, "INC", addrAbsolute, opINC, 6)
	def(0xFE, "INC", addrAbsoluteX, opINC, 7)

	def(0xCA, "DEX", addrImplied, opDEX, 2)
	def(0x88, "DEY", addrImplied, opDEY, 2)
	def(0xE8, "INX", addrImplied, opINX, 2)
	def(0xC8, "INY", addrImplied, opINY, 2)

	def(0x29, "AND", addrImmediate, opAND, 2)
	def(0x25, "AND", addrZeroPage, opAND, 3)
	def(0x35, "AND", addrZeroPageX, opAND, 4)
	def(0x2D, "AND", addrAbsolute, opAND, 4)
	def(0x3D, "AND", addrAbsoluteX, opAND, 4)
	def(0x39, "AND", addrAbsoluteY, opAND, 4)
	def(0x21, "AND", addrIndexedIndirect, opAND, 6)
	def(0x31, "AND", addrIndirectIndexed, opAND, 5)

	def(0x09, "ORA", addrImmediate, opORA, 2)
	def(0x05, "ORA", addrZeroPage, opORA, 3)
	def(0x15, "ORA", addrZeroPageX, opORA, 4)
	def(0x0D, "ORA", addrAbsolute, opORA, 4)
	def(0x1D, "ORA", addrAbsoluteX, opORA, 4)
	def(0x19, "ORA", addrAbsoluteY, opORA, 4)
	def(0x01, "ORA", addrIndexedIndirect, opORA, 6)
	def(0x11, "ORA", addrIndirectIndexed, opORA, 5)

	def(0x49, "EOR", addrImmediate, opEOR, 2)
	def(0x45, "EOR", addrZeroPage, opEOR, 3)
	def(0x55, "EOR", addrZeroPageX, opEOR, 4)
	def(0x4D, "EOR", addrAbsolute, opEOR, 4)
	def(0x5D, "EOR", addrAbsoluteX, opEOR, 4)
	def(0x59, "EOR", addrAbsoluteY, opEOR, 4)
	def(0x41, "EOR", addrIndexedIndirect, opEOR, 6)
	def(0x51, "EOR", addrIndirectIndexed, opEOR, 5)

	def(0x0A, "ASL", addrAccumulator, opASL, 2)
	def(0x06, "ASL", addrZeroPage, opASL, 5)
	def(0x16, "ASL", addrZeroPageX, opASL, 6)
	def(0x0E, "ASL", addrAbsolute, opASL, 6)
	def(0x1E, "ASL", addrAbsoluteX, opASL, 7)

	def(0x4A, "LSR", addrAccumulator, opLSR, 2)
	def(0x46, "LSR", addrZeroPage, opLSR, 5)
	def(0x56, "LSR", addrZeroPageX, opLSR, 6)
	def(0x4E, "LSR", addrAbsolute, opLSR, 6)
	def(0x5E, "LSR", addrAbsoluteX, opLSR, 7)

	def(0x2A, "ROL", addrAccumulator, opROL, 2)
	def(0x26, "ROL", addrZeroPage, opROL, 5)
	def(0x36, "ROL", addrZeroPageX, opROL, 6)
	def(0x2E, "ROL", addrAbsolute, opROL, 6)
	def(0x3E, "ROL", addrAbsoluteX, opROL, 7)

	def(0x6A, "ROR", addrAccumulator, opROR, 2)
	def(0x66, "ROR", addrZeroPage, opROR, 5)
	def(0x76, "ROR", addrZeroPageX, opROR, 6)
	def(0x6E, "ROR", addrAbsolute, opROR, 6)
	def(0x7E, "ROR", addrAbsoluteX, opROR, 7)

	def(0x89, "BIT", addrImmediate, opBIT, 2)
	def(0x24, "BIT", addrZeroPage, opBIT, 3)
	def(0x34, "BIT", addrZeroPageX, opBIT, 4)
	def(0x2C, "BIT", addrAbsolute, opBIT, 4)
	def(0x3C, "BIT", addrAbsoluteX, opBIT, 4)

	def(0x14, "TRB", addrZeroPage, opTRB, 5)
	def(0x1C, "TRB", addrAbsolute, opTRB, 6)
	def(0x04, "TSB", addrZeroPage, opTSB, 5)
	def(0x0C, "TSB", addrAbsolute, opTSB, 6)

	def(0x90, "BCC", addrRelative, opBCC, 2)
	def(0xB0, "BCS", addrRelative, opBCS, 2)
	def(0xF0, "BEQ", addrRelative, opBEQ, 2)
	def(0xD0, "BNE", addrRelative, opBNE, 2)
	def(0x30, "BMI", addrRelative, opBMI, 2)
	def(0x10, "BPL", addrRelative, opBPL, 2)
	def(0x50, "BVC", addrRelative, opBVC, 2)
	def(0x70, "BVS", addrRelative, opBVS, 2)
	def(0x80, "BRA", addrRelative, opBRA, 3)

	def(0x4C, "JMP", addrAbsolute, opJMP, 3)
	def(0x6C, "JMP", addrIndirect, opJMP, 5)
	def(0x20, "JSR", addrAbsolute, opJSR, 6)
	def(0x60, "RTS", addrImplied, opRTS, 6)
	def(0x00, "BRK", addrImplied, opBRK, 7)
	def(0x40, "RTI", addrImplied, opRTI, 6)

	def(0x18, "CLC", addrImplied, opCLC, 2)
	def(0xD8, "CLD", addrImplied, opCLD, 2)
	def(0x58, "CLI", addrImplied, opCLI, 2)
	def(0xB8, "CLV", addrImplied, opCLV, 2)
	def(0x38, "SEC", addrImplied, opSEC, 2)
	def(0xF8, "SED", addrImplied, opSED, 2)
	def(0x78, "SEI", addrImplied, opSEI, 2)

	def(0xEA, "NOP", addrImplied, opNOP, 2)
}

// Mnemonic returns the decoded mnemonic for an opcode byte ("BAD" for
// an unassigned slot).
func Mnemonic(op uint8) string {
	return opcodeTable[op].Mnemonic
}

// Lookup returns everything the disassembler and assembler need about
// an opcode byte: its mnemonic, addressing kind, total instruction
// length in bytes (including the opcode itself), and whether it's an
// unassigned slot.
func Lookup(op uint8) (mnemonic string, kind AddrKind, bytes uint8, bad bool) {
	e := &opcodeTable[op]
	return e.Mnemonic, e.Kind, e.Bytes, e.Bad
}

// Encode returns the opcode byte for a given mnemonic and addressing
// kind, for the assembler. ok is false if no such combination exists
// in the table.
func Encode(mnemonic string, kind AddrKind) (op uint8, ok bool) {
	for i := 0; i < 256; i++ {
		e := &opcodeTable[i]
		if !e.Bad && e.Mnemonic == mnemonic && e.Kind == kind {
			return uint8(i), true
		}
	}
	return 0, false
}
