// Package iomap implements the soft-switch dispatch table that
// services $C000-$C0FF: keyboard latch, slot-ROM and zero-page bank
// toggles, display mode switches, the bank-switch protocol, and the
// disk II controller. It satisfies memory.IOHandler so Banked can
// delegate the whole page to it without owning the dispatch logic
// itself.
package iomap

import (
	"github.com/kestrel-systems/retrocore/cpu"
	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/memory"
)

// KeyReader returns the current keyboard latch value. ClearStrobe
// clears the strobe bit the latch carries. Both are out of scope for
// this core (there's no keyboard device here), but $C000/$C010 must
// still dispatch somewhere, so external code registers these hooks
// rather than the core hardcoding a no-op.
type KeyReader func() uint8
type ClearStrobe func()

// Table is the $C000-$C0FF dispatch table for one machine. It holds
// direct references to the state it mutates rather than discovering
// them through ctx, since a machine only ever has one of each; ctx is
// still accepted (and passed through to CPU.Bus calls elsewhere) to
// satisfy memory.IOHandler.
type Table struct {
	CPU  *cpu.CPU
	Mem  *memory.Banked
	Disk *disk.Controller

	Keyboard    KeyReader
	ClearStrobe ClearStrobe
}

// New builds a table wired to the given machine components. Mem, CPU,
// and Disk must all be non-nil; Keyboard/ClearStrobe may be left nil,
// in which case $C000/$C010 read as zero.
func New(c *cpu.CPU, mem *memory.Banked, d *disk.Controller) *Table {
	return &Table{CPU: c, Mem: mem, Disk: d}
}

// bankCombo is one of the eight absolute bank-switch states the
// $C080-$C08F protocol selects, matching the hardware's Read-RAM /
// Write-enable / Bank-2 combinations (not a toggle of individual bits:
// each switch sets the whole field to a fixed value).
func bankCombo(ram, write, ram2 bool) uint8 {
	var v uint8
	if ram {
		v |= memory.BankRAMRead
	}
	if write {
		v |= memory.BankWriteEnable
	}
	if ram2 {
		v |= memory.BankRAM2
	}
	return v
}

var bankSwitchCombos = map[uint16]uint8{
	0xC080: bankCombo(true, false, true),
	0xC081: bankCombo(false, true, true),
	0xC082: bankCombo(false, false, true),
	0xC083: bankCombo(true, true, true),
	0xC088: bankCombo(true, false, false),
	0xC089: bankCombo(false, true, false),
	0xC08A: bankCombo(false, false, false),
	0xC08B: bankCombo(true, true, false),
}

// applyBankSwitch implements the $C080-$C08F "two consecutive reads,
// or one write" protocol: a write always takes effect; a read only
// takes effect if the CPU's previous bus access was this same address
// (cpu.LastAddr, which the CPU updates after every read, so at the
// point this hook runs it still holds the prior access).
func (t *Table) applyBankSwitch(addr uint16, isWrite bool) {
	combo, ok := bankSwitchCombos[addr]
	if !ok {
		return
	}
	if isWrite || t.CPU.LastAddr == addr {
		t.Mem.Bank = (t.Mem.Bank &^ (memory.BankRAMRead | memory.BankWriteEnable | memory.BankRAM2)) | combo
	}
}

func boolBit(on bool) uint8 {
	if on {
		return 0x80
	}
	return 0
}

// ReadIO services a CPU read anywhere in $C000-$C0FF.
func (t *Table) ReadIO(addr uint16, ctx any) uint8 {
	switch {
	case addr == 0xC000:
		if t.Keyboard != nil {
			return t.Keyboard()
		}
		return 0
	case addr == 0xC010:
		if t.ClearStrobe != nil {
			t.ClearStrobe()
		}
		return 0

	case addr == 0xC011:
		return boolBit(t.Mem.Bank&memory.BankRAM2 != 0)
	case addr == 0xC012:
		return boolBit(t.Mem.Bank&memory.BankRAMRead != 0)
	case addr == 0xC015:
		return boolBit(t.Mem.Mem&memory.MemSlotCXROM != 0)
	case addr == 0xC016:
		return boolBit(t.Mem.Bank&memory.BankAltZP != 0)
	case addr == 0xC017:
		return boolBit(t.Mem.Mem&memory.MemSlotC3ROM != 0)

	case addr >= 0xC050 && addr <= 0xC053:
		t.switchDisplay(addr)
		return 0
	case addr == 0xC05E || addr == 0xC05F:
		t.switchDisplay(addr)
		return 0

	case addr == 0xC07E:
		return boolBit(t.Mem.Display&memory.DisplayIOUDis != 0)
	case addr == 0xC07F:
		return boolBit(t.Mem.Display&memory.DisplayDHires != 0)

	case addr >= 0xC080 && addr <= 0xC08F:
		t.applyBankSwitch(addr, false)
		return boolBit(true)

	case addr >= 0xC0E0 && addr <= 0xC0FF:
		return t.Disk.SwitchRead(addr)
	}
	return 0
}

// WriteIO services a CPU write anywhere in $C000-$C0FF.
func (t *Table) WriteIO(addr uint16, value uint8, ctx any) {
	switch {
	case addr == 0xC006:
		t.Mem.Mem &^= memory.MemSlotCXROM
	case addr == 0xC007:
		t.Mem.Mem |= memory.MemSlotCXROM
	case addr == 0xC00A:
		t.Mem.Mem &^= memory.MemSlotC3ROM
	case addr == 0xC00B:
		t.Mem.Mem |= memory.MemSlotC3ROM

	case addr == 0xC008:
		t.Mem.Bank &^= memory.BankAltZP
	case addr == 0xC009:
		t.Mem.Bank |= memory.BankAltZP

	case addr == 0xC00C:
		t.Mem.Display &^= memory.Display80Col
	case addr == 0xC00D:
		t.Mem.Display |= memory.Display80Col
	case addr == 0xC00E:
		t.Mem.Display &^= memory.DisplayAltChar
	case addr == 0xC00F:
		t.Mem.Display |= memory.DisplayAltChar

	case addr >= 0xC050 && addr <= 0xC053:
		t.switchDisplay(addr)
	case addr == 0xC05E || addr == 0xC05F:
		t.switchDisplay(addr)

	case addr == 0xC07E:
		t.Mem.Display |= memory.DisplayIOUDis
	case addr == 0xC07F:
		t.Mem.Display &^= memory.DisplayIOUDis

	case addr >= 0xC080 && addr <= 0xC08F:
		t.applyBankSwitch(addr, true)

	case addr >= 0xC0E0 && addr <= 0xC0FF:
		t.Disk.SwitchWrite(addr, value)
	}
}

// switchDisplay handles the display-mode addresses that act
// identically whether accessed by read or write.
func (t *Table) switchDisplay(addr uint16) {
	switch addr {
	case 0xC050:
		t.Mem.Display &^= memory.DisplayText
	case 0xC051:
		t.Mem.Display |= memory.DisplayText
	case 0xC052:
		t.Mem.Display &^= memory.DisplayMixed
	case 0xC053:
		t.Mem.Display |= memory.DisplayMixed
	case 0xC05E:
		t.Mem.Display |= memory.DisplayDHires
	case 0xC05F:
		t.Mem.Display &^= memory.DisplayDHires
	}
}
