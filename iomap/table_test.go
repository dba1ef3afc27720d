package iomap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-systems/retrocore/cpu"
	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/iomap"
	"github.com/kestrel-systems/retrocore/memory"
)

func newTable() (*iomap.Table, *memory.Banked, *cpu.CPU, *disk.Controller) {
	mem := memory.NewBanked()
	d := disk.NewController()
	c := cpu.New(mem)
	t := iomap.New(c, mem, d)
	mem.SetIOHandler(t)
	return t, mem, c, d
}

func TestBankSwitchWriteAlwaysTakesEffect(t *testing.T) {
	_, mem, _, _ := newTable()
	mem.Write(0xC080, 0, nil)
	assert.Equal(t, memory.BankRAMRead|memory.BankRAM2, mem.Bank)

	mem.Write(0xC08A, 0, nil)
	assert.Equal(t, uint8(0), mem.Bank)
}

func TestBankSwitchReadNeedsTwoConsecutiveAccesses(t *testing.T) {
	_, mem, c, _ := newTable()
	mem.Read(0xC088, nil)
	assert.Equal(t, uint8(0), mem.Bank, "single read must not take effect")

	// Stand in for the CPU having just read the same address.
	c.LastAddr = 0xC088
	mem.Read(0xC088, nil)
	assert.Equal(t, memory.BankRAMRead, mem.Bank, "second consecutive read at the same address commits")
}

func TestSlotCXROMToggle(t *testing.T) {
	_, mem, _, _ := newTable()
	mem.Write(0xC007, 0, nil)
	assert.True(t, mem.Mem&memory.MemSlotCXROM != 0)
	mem.Write(0xC006, 0, nil)
	assert.False(t, mem.Mem&memory.MemSlotCXROM != 0)
}

func TestKeyboardLatchDefaultsToZero(t *testing.T) {
	_, mem, _, _ := newTable()
	assert.Equal(t, uint8(0), mem.Read(0xC000, nil))
}

func TestKeyboardHookIsUsed(t *testing.T) {
	tbl, mem, _, _ := newTable()
	tbl.Keyboard = func() uint8 { return 0xC1 }
	assert.Equal(t, uint8(0xC1), mem.Read(0xC000, nil))
}

func TestDiskSoftSwitchesReachController(t *testing.T) {
	_, mem, _, d := newTable()
	mem.Write(0xC0EB, 0, nil) // select drive 2
	assert.Same(t, d.Drive2, d.Selected)

	mem.Write(0xC0E9, 0, nil) // turn the selected drive's motor on
	assert.True(t, d.Drive2.Online)
}
