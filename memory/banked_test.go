package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-systems/retrocore/memory"
)

func TestMainAuxSwitch(t *testing.T) {
	m := memory.NewBanked()

	m.Write(0x1000, 0xAA, nil)
	assert.Equal(t, uint8(0xAA), m.Read(0x1000, nil))

	m.Mem |= memory.MemReadAux | memory.MemWriteAux
	m.Write(0x1000, 0xBB, nil)
	assert.Equal(t, uint8(0xBB), m.Read(0x1000, nil))

	m.Mem = 0
	assert.Equal(t, uint8(0xAA), m.Read(0x1000, nil))
}

func TestZeroPageAltZP(t *testing.T) {
	m := memory.NewBanked()
	m.Write(0x0080, 0x11, nil)

	m.Bank |= memory.BankAltZP
	m.Write(0x0080, 0x22, nil)
	assert.Equal(t, uint8(0x22), m.Read(0x0080, nil))

	m.Bank = 0
	assert.Equal(t, uint8(0x11), m.Read(0x0080, nil))
}

func TestBankSwitchDefaultsToROM(t *testing.T) {
	m := memory.NewBanked()
	rom := make([]byte, 12*1024)
	rom[len(rom)-1] = 0xEA
	require := assert.New(t)
	require.NoError(m.LoadSysROM(rom))

	assert.Equal(t, uint8(0xEA), m.Read(0xFFFF, nil))

	// Writes are dropped while write-enable is off (the power-on default).
	m.Write(0xFFFF, 0x00, nil)
	assert.Equal(t, uint8(0xEA), m.Read(0xFFFF, nil))
}

func TestBankSwitchRAMReadWrite(t *testing.T) {
	m := memory.NewBanked()
	m.Bank = memory.BankRAMRead | memory.BankWriteEnable

	m.Write(0xE000, 0x42, nil)
	assert.Equal(t, uint8(0x42), m.Read(0xE000, nil))
}

func TestRAM2OnlyCoversD000ToDFFF(t *testing.T) {
	m := memory.NewBanked()
	m.Bank = memory.BankRAMRead | memory.BankWriteEnable | memory.BankRAM2

	m.Write(0xD000, 0x11, nil)
	m.Write(0xE000, 0x22, nil)

	assert.Equal(t, uint8(0x11), m.Read(0xD000, nil))
	assert.Equal(t, uint8(0x22), m.Read(0xE000, nil))

	// Disabling RAM2 reveals the plain RAM bank underneath $D000 instead.
	m.Bank &^= memory.BankRAM2
	assert.NotEqual(t, uint8(0x11), m.Read(0xD000, nil))
}

func TestPeekNeverHitsIOHandler(t *testing.T) {
	m := memory.NewBanked()
	m.SetIOHandler(panicIO{})
	assert.Equal(t, uint8(0), m.Peek(0xC030))
	assert.NotPanics(t, func() { m.Peek(0xC030) })
}

type panicIO struct{}

func (panicIO) ReadIO(addr uint16, ctx any) uint8     { panic("ReadIO must not be called by Peek") }
func (panicIO) WriteIO(addr uint16, value uint8, ctx any) { panic("WriteIO must not be called by Peek") }

func TestPeripheralROMWindowIgnoresWrites(t *testing.T) {
	m := memory.NewBanked()
	before := m.Peek(0xC200)
	m.Write(0xC200, 0xFF, nil)
	assert.Equal(t, before, m.Peek(0xC200))
}
