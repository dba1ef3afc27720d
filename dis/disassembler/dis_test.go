package disassembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-systems/retrocore/dis/disassembler"
)

type flatMemory [65536]uint8

func (m *flatMemory) Peek(addr uint16) uint8 { return m[addr] }

func TestDecodeImmediate(t *testing.T) {
	mem := &flatMemory{}
	mem[0x0200] = 0xA9
	mem[0x0201] = 0x42

	loc := disassembler.Decode(mem, 0x0200)
	assert.Equal(t, "LDA", loc.Mnemonic)
	assert.Equal(t, 2, loc.Size())
	assert.Equal(t, "LDA #$42", loc.Text())
}

func TestDecodeRelativeResolvesTarget(t *testing.T) {
	mem := &flatMemory{}
	mem[0x0300] = 0xF0 // BEQ
	mem[0x0301] = 0xFE // -2: branches back to itself

	loc := disassembler.Decode(mem, 0x0300)
	assert.Equal(t, "BEQ $0300", loc.Text())
}

func TestDecodeBadOpcode(t *testing.T) {
	mem := &flatMemory{}
	mem[0x0400] = 0x02 // unwired opcode

	loc := disassembler.Decode(mem, 0x0400)
	assert.True(t, loc.Bad)
	assert.Contains(t, loc.Text(), "invalid opcode")
}

func TestRangeAdvancesByInstructionSize(t *testing.T) {
	mem := &flatMemory{}
	mem[0] = 0xA9 // LDA #imm (2 bytes)
	mem[1] = 0x00
	mem[2] = 0xEA // NOP (1 byte)
	mem[3] = 0x60 // RTS (1 byte)

	locs := disassembler.Range(mem, 0, 3)
	assert.Equal(t, []uint16{0, 2, 3}, []uint16{locs[0].PC, locs[1].PC, locs[2].PC})
}

func TestListingOneLinePerInstruction(t *testing.T) {
	mem := &flatMemory{}
	mem[0] = 0xEA
	mem[1] = 0xEA

	out := disassembler.Listing(mem, 0, 2)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
}
