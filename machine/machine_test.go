package machine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/machine"
)

func romWithResetVector(addr uint16, program ...uint8) []byte {
	rom := make([]byte, 12*1024)
	for i, b := range program {
		rom[i] = b
	}
	lo, hi := byte(addr), byte(addr>>8)
	rom[len(rom)-4] = lo
	rom[len(rom)-3] = hi
	return rom
}

func TestLoadROMsResetsCPU(t *testing.T) {
	m := machine.New()
	require.NoError(t, m.LoadROMs(romWithResetVector(0, 0xA9, 0x42), nil, nil))
	assert.Equal(t, uint16(0), m.CPU.PC)
	assert.Equal(t, uint8(0xFF), m.CPU.S)
}

func TestLoadROMsTruncatesOversizedImage(t *testing.T) {
	m := machine.New()
	oversized := make([]byte, 20*1024)
	oversized[12*1024-1] = 0xFF // last byte actually within the 12K system ROM
	oversized[12*1024] = 0xAA   // past it; must not be consulted by LoadSysROM
	require.NoError(t, m.LoadROMs(oversized, nil, nil))
	assert.Equal(t, uint8(0xFF), m.Mem.Peek(0xFFFF))
}

func TestInsertDiskBeforeRunAppliesDirectly(t *testing.T) {
	m := machine.New()
	err := m.InsertDisk(1, make([]byte, disk.StandardImageSize))
	assert.NoError(t, err)
	assert.NotNil(t, m.Disk.Drive1.Data)
}

func TestInsertDiskRejectsBadSize(t *testing.T) {
	m := machine.New()
	err := m.InsertDisk(1, make([]byte, 7))
	assert.Error(t, err)
}

func TestRunExecutesUntilPaused(t *testing.T) {
	m := machine.New()
	// LDA #$42 ; loop: JMP loop
	require.NoError(t, m.LoadROMs(romWithResetVector(0xD000, 0xA9, 0x42, 0x4C, 0x02, 0xD0), nil, nil))

	go m.Run()
	waitUntil(t, func() bool { return m.Registers().A == 0x42 })

	m.Pause()
	waitUntil(t, func() bool { return !m.IsRunning() })
}

func TestSetBreakpointPausesAtAddress(t *testing.T) {
	m := machine.New()
	// NOP NOP NOP ; loop: JMP loop, breakpoint on the second NOP.
	require.NoError(t, m.LoadROMs(romWithResetVector(0xD000, 0xEA, 0xEA, 0xEA, 0x4C, 0x03, 0xD0), nil, nil))
	m.SetBreakpoint(0xD001)

	go m.Run()
	// IsRunning is false until Run starts, so also wait for the PC.
	waitUntil(t, func() bool { return !m.IsRunning() && m.Registers().PC == 0xD001 })

	assert.Equal(t, uint16(0xD001), m.Registers().PC)
}

func TestStepAdvancesExactlyOneInstructionWhilePaused(t *testing.T) {
	m := machine.New()
	require.NoError(t, m.LoadROMs(romWithResetVector(0xD000, 0xA9, 0x01, 0xA9, 0x02), nil, nil))

	// Queued before Run ever starts, so it's the first event drained,
	// and no instruction executes before the machine is paused.
	m.Pause()
	go m.Run()
	waitUntil(t, func() bool { return !m.IsRunning() })

	before := m.Registers()
	m.Step()
	waitUntil(t, func() bool { return m.Registers().PC != before.PC })

	after := m.Registers()
	assert.Equal(t, uint8(0x01), after.A)
	assert.Equal(t, uint16(0xD002), after.PC)
}

func TestRegistersBeforeRunReadsDirectly(t *testing.T) {
	m := machine.New()
	require.NoError(t, m.LoadROMs(romWithResetVector(0x1234), nil, nil))
	regs := m.Registers()
	assert.Equal(t, uint16(0x1234), regs.PC)
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
