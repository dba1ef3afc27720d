// Package machine wires the CPU, banked memory, disk controller, and
// soft-switch dispatch table into one runnable system, and drives the
// fetch/execute loop the way the teacher's c64.C64.Step/IsRunning does.
package machine

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/kestrel-systems/retrocore/cpu"
	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/iomap"
	"github.com/kestrel-systems/retrocore/memory"
)

// eventKind identifies what a machineEvent asks Run to do the next time
// it drains the queue, between instructions.
type eventKind int

const (
	eventPause eventKind = iota
	eventResume
	eventSetBreakpoint
	eventClearBreakpoint
	eventInsertDisk
	eventStep
	eventSnapshot
)

// Registers is a point-in-time copy of the CPU's register file,
// returned by Machine.Registers so a debugger can display state
// without racing the Run goroutine's reads and writes.
type Registers struct {
	A, X, Y, S uint8
	P          uint8
	PC         uint16
}

type machineEvent struct {
	kind     eventKind
	addr     uint16
	drive    int
	image    []byte
	result   chan error
	snapshot chan Registers
}

// eventQueueCapacity is generous enough that a debugger sending several
// breakpoint-set/pause calls back to back never blocks waiting for Run
// to drain them, matching the reference implementation's vm_event
// queue rather than a rendezvous channel.
const eventQueueCapacity = 64

// Machine owns every component of one emulated computer and the single
// queue that serializes control-plane requests (pause, resume,
// breakpoint set/clear, disk insert) against the fetch/execute loop.
// Run is the one goroutine that ever touches CPU/Mem/Disk directly;
// every other goroutine (a debugger TUI, a CLI signal handler) talks to
// it only through the methods below, which enqueue a machineEvent
// rather than mutating state themselves. This mirrors
// original_source's vm_event queue, recovered here because it lets a
// debugger attach to a running machine without a lock around every bus
// access.
type Machine struct {
	CPU  *cpu.CPU
	Mem  *memory.Banked
	Disk *disk.Controller
	IO   *iomap.Table

	events  chan machineEvent
	running atomic.Bool
	started atomic.Bool

	breakpoints map[uint16]bool
}

// New builds a machine with its components wired together: the CPU's
// bus is the banked memory, the banked memory's soft-switch page is
// serviced by the iomap table, and the iomap table reaches back into
// the CPU and disk controller.
func New() *Machine {
	mem := memory.NewBanked()
	d := disk.NewController()
	c := cpu.New(mem)
	io := iomap.New(c, mem, d)
	mem.SetIOHandler(io)

	return &Machine{
		CPU:         c,
		Mem:         mem,
		Disk:        d,
		IO:          io,
		events:      make(chan machineEvent, eventQueueCapacity),
		breakpoints: make(map[uint16]bool),
	}
}

// BadFile reports a ROM or disk image that couldn't be loaded — wrong
// size, short read, or similarly malformed — once it reaches this
// boundary. Lower layers (memory, disk) return their own typed errors;
// this wraps them with the call that failed, for a user-facing message
// at the CLI.
type BadFile struct {
	Op  string
	Err error
}

func (e *BadFile) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *BadFile) Unwrap() error { return e.Err }

// LoadROMs installs the system, expansion, and peripheral ROM images
// and resets the CPU from the freshly loaded reset vector. expansion
// and peripheral may be nil if the machine has no card in that slot.
// Unlike the control-plane methods below, this runs before Run is ever
// started, so it touches Mem/CPU directly rather than through the
// event queue.
func (m *Machine) LoadROMs(sys, expansion, peripheral []byte) error {
	if err := m.Mem.LoadSysROM(sys); err != nil {
		return errors.Wrap(&BadFile{Op: "load system ROM", Err: err}, "machine boot")
	}
	if expansion != nil {
		if err := m.Mem.LoadExpansionROM(expansion); err != nil {
			return errors.Wrap(&BadFile{Op: "load expansion ROM", Err: err}, "machine boot")
		}
	}
	if peripheral != nil {
		if err := m.Mem.LoadPeripheralROM(peripheral); err != nil {
			return errors.Wrap(&BadFile{Op: "load peripheral ROM", Err: err}, "machine boot")
		}
	}
	m.CPU.Reset()
	return nil
}

// InsertDisk swaps a disk image into drive 1 or 2. Before Run has ever
// started there's no loop to drain the event, so this applies directly;
// once Run is underway (running or merely paused) it's enqueued and
// applied between instructions instead, so a disk swap can never land
// mid-instruction relative to a disk soft-switch access.
func (m *Machine) InsertDisk(driveNum int, image []byte) error {
	if !m.started.Load() {
		return m.insertDiskNow(driveNum, image)
	}
	result := make(chan error, 1)
	m.events <- machineEvent{kind: eventInsertDisk, drive: driveNum, image: image, result: result}
	return <-result
}

func (m *Machine) insertDiskNow(driveNum int, image []byte) error {
	drive := m.Disk.Drive1
	if driveNum == 2 {
		drive = m.Disk.Drive2
	}
	if err := drive.Insert(image); err != nil {
		return errors.Wrap(&BadFile{Op: "insert disk", Err: err}, "machine boot")
	}
	return nil
}

// IsRunning reports whether the machine is currently executing
// instructions (as opposed to paused at a breakpoint or by request).
func (m *Machine) IsRunning() bool {
	return m.running.Load()
}

// Pause asks Run to stop executing after the instruction in flight
// completes. Safe to call from any goroutine.
func (m *Machine) Pause() {
	m.events <- machineEvent{kind: eventPause}
}

// Resume asks a paused Run loop to continue executing. Safe to call
// from any goroutine.
func (m *Machine) Resume() {
	m.events <- machineEvent{kind: eventResume}
}

// SetBreakpoint arms a breakpoint at addr: Run pauses just before
// executing the instruction there. Safe to call from any goroutine.
func (m *Machine) SetBreakpoint(addr uint16) {
	m.events <- machineEvent{kind: eventSetBreakpoint, addr: addr}
}

// ClearBreakpoint disarms a previously set breakpoint. Safe to call
// from any goroutine.
func (m *Machine) ClearBreakpoint(addr uint16) {
	m.events <- machineEvent{kind: eventClearBreakpoint, addr: addr}
}

// Step executes exactly one instruction, whether or not the machine is
// currently paused. Safe to call from any goroutine; the debugger uses
// this for single-stepping, since only Run's goroutine may ever touch
// the CPU directly.
func (m *Machine) Step() {
	m.events <- machineEvent{kind: eventStep}
}

// Registers returns a snapshot of the CPU's register file, fetched
// through the same event queue every other control-plane operation
// uses, so the debugger never reads CPU fields concurrently with the
// Run goroutine's Step.
func (m *Machine) Registers() Registers {
	if !m.started.Load() {
		return m.registersNow()
	}
	snapshot := make(chan Registers, 1)
	m.events <- machineEvent{kind: eventSnapshot, snapshot: snapshot}
	return <-snapshot
}

func (m *Machine) registersNow() Registers {
	c := m.CPU
	return Registers{A: c.A, X: c.X, Y: c.Y, S: c.S, P: c.P, PC: c.PC}
}

// Run is the machine's single executor: it steps the CPU and, between
// each instruction (never mid-instruction), drains any control-plane
// events queued since the last step. It blocks on the queue while
// paused and never returns; it's started once, on its own goroutine,
// and runs for the process lifetime.
func (m *Machine) Run() {
	m.started.Store(true)
	m.running.Store(true)
	for {
		m.drainPending()
		if !m.running.Load() {
			m.applyEvent(<-m.events)
			continue
		}
		if m.breakpoints[m.CPU.PC] {
			m.running.Store(false)
			continue
		}
		m.CPU.Step()
	}
}

// drainPending applies every event already queued without blocking.
func (m *Machine) drainPending() {
	for {
		select {
		case e := <-m.events:
			m.applyEvent(e)
		default:
			return
		}
	}
}

func (m *Machine) applyEvent(e machineEvent) {
	switch e.kind {
	case eventPause:
		m.running.Store(false)
	case eventResume:
		m.running.Store(true)
	case eventSetBreakpoint:
		m.breakpoints[e.addr] = true
	case eventClearBreakpoint:
		delete(m.breakpoints, e.addr)
	case eventInsertDisk:
		err := m.insertDiskNow(e.drive, e.image)
		if e.result != nil {
			e.result <- err
		}
	case eventStep:
		m.CPU.Step()
	case eventSnapshot:
		e.snapshot <- m.registersNow()
	}
}
