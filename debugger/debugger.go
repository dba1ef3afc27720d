// Package debugger is a bubbletea/lipgloss terminal UI for stepping a
// machine.Machine, inspecting its registers, stack, and memory, and
// managing breakpoints — adapted from the teacher's monitor program.
package debugger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-systems/retrocore/cpu"
	"github.com/kestrel-systems/retrocore/dis/disassembler"
	"github.com/kestrel-systems/retrocore/machine"
)

type stepTick struct{}

func doTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return stepTick{}
	})
}

// Debugger is the bubbletea model driving one machine. It never reads
// m.CPU directly: current/last come from machine.Machine.Registers,
// which fetches through the same event queue Step/Pause/Resume use, so
// the UI goroutine never races the machine's own execution goroutine.
type Debugger struct {
	m *machine.Machine

	width, height int

	locations     []disassembler.Location
	selectedIndex int

	current, last machine.Registers
	lastMemory    [64]uint8

	memoryAddress uint16
	activePane    string // "disasm" or "memory"

	gotoInput   textinput.Model
	showingGoto bool

	breakpoints map[uint16]bool
	running     bool
}

// New builds a debugger attached to m, starting paused with the
// disassembly centered on the CPU's current PC.
func New(m *machine.Machine) *Debugger {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. FF00)"
	ti.CharLimit = 4
	ti.Width = 6

	d := &Debugger{
		m:           m,
		locations:   disassembler.Range(m.Mem, 0, 4096),
		activePane:  "disasm",
		gotoInput:   ti,
		breakpoints: make(map[uint16]bool),
	}
	d.current = m.Registers()
	d.last = d.current
	d.relocate()
	return d
}

func (d *Debugger) Init() tea.Cmd {
	return nil
}

func (d *Debugger) relocate() {
	index := 0
	for i, l := range d.locations {
		if l.PC == d.current.PC {
			index = i
			break
		}
	}
	d.selectedIndex = index
}

func (d *Debugger) captureMemory() {
	addr := d.memoryAddress
	for i := 0; i < 64; i++ {
		d.lastMemory[i] = d.m.Mem.Peek(addr + uint16(i))
	}
}

// step advances the machine by one instruction and refreshes the
// cached register snapshot used for rendering and change highlighting.
func (d *Debugger) step() {
	d.last = d.current
	d.captureMemory()
	d.m.Step()
	d.current = d.m.Registers()
	d.relocate()
}

func (d *Debugger) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		if !d.running {
			return d, nil
		}
		d.step()
		if d.breakpoints[d.current.PC] {
			d.running = false
			return d, nil
		}
		return d, doTick()

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height

	case tea.KeyMsg:
		if d.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(d.gotoInput.Value(), 16, 16); err == nil {
					d.memoryAddress = uint16(addr)
				}
				d.showingGoto = false
				return d, nil
			case tea.KeyEsc:
				d.showingGoto = false
				return d, nil
			}
			var cmd tea.Cmd
			d.gotoInput, cmd = d.gotoInput.Update(msg)
			return d, cmd
		}

		switch msg.String() {
		case "g":
			d.showingGoto = true
			d.gotoInput.Focus()
			return d, textinput.Blink
		case "q", "ctrl+c":
			return d, tea.Quit
		case "s":
			d.step()
		case "b":
			addr := d.locations[d.selectedIndex].PC
			if d.breakpoints[addr] {
				delete(d.breakpoints, addr)
				d.m.ClearBreakpoint(addr)
			} else {
				d.breakpoints[addr] = true
				d.m.SetBreakpoint(addr)
			}
		case "r":
			if !d.running {
				d.running = true
				d.m.Resume()
				return d, doTick()
			}
		case "p":
			d.running = !d.running
			if d.running {
				d.m.Resume()
				return d, doTick()
			}
			d.m.Pause()

		case "tab":
			if d.activePane == "disasm" {
				d.activePane = "memory"
			} else {
				d.activePane = "disasm"
			}

		case "up":
			if d.activePane == "disasm" {
				if d.selectedIndex > 0 {
					d.selectedIndex--
				}
			} else if d.memoryAddress >= 8 {
				d.memoryAddress -= 8
				d.captureMemory()
			}
		case "down":
			if d.activePane == "disasm" {
				if d.selectedIndex < len(d.locations)-20 {
					d.selectedIndex++
				}
			} else if d.memoryAddress <= 0xFFF8 {
				d.memoryAddress += 8
				d.captureMemory()
			}
		case "pgup":
			if d.activePane == "disasm" {
				d.selectedIndex -= 20
				if d.selectedIndex < 0 {
					d.selectedIndex = 0
				}
			} else {
				if d.memoryAddress >= 64 {
					d.memoryAddress -= 64
				} else {
					d.memoryAddress = 0
				}
				d.captureMemory()
			}
		case "pgdown":
			if d.activePane == "disasm" {
				d.selectedIndex += 20
				if max := len(d.locations) - 20; d.selectedIndex > max {
					d.selectedIndex = max
				}
			} else {
				if d.memoryAddress <= 0xFFC0 {
					d.memoryAddress += 64
				} else {
					d.memoryAddress = 0xFFC0
				}
				d.captureMemory()
			}
		}
	}
	return d, nil
}

func (d *Debugger) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (d *Debugger) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (d *Debugger) formatFlags() string {
	flags := []struct {
		name string
		flag uint8
	}{
		{"N", cpu.FlagN}, {"V", cpu.FlagV}, {"B", cpu.FlagB}, {"D", cpu.FlagD},
		{"I", cpu.FlagI}, {"Z", cpu.FlagZ}, {"C", cpu.FlagC},
	}

	var out strings.Builder
	for _, f := range flags {
		current := d.current.P&f.flag != 0
		last := d.last.P&f.flag != 0
		switch {
		case !current:
			out.WriteString("- ")
		case current != last:
			out.WriteString(changedStyle.Render(f.name + " "))
		default:
			out.WriteString(f.name + " ")
		}
	}
	return out.String()
}

func (d *Debugger) formatMemory() string {
	var out strings.Builder
	addr := d.memoryAddress

	for row := 0; row < 8; row++ {
		fmt.Fprintf(&out, "$%04X: ", addr)
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := d.m.Mem.Peek(addr + uint16(col))
			if value != d.lastMemory[offset] {
				out.WriteString(changedStyle.Render(fmt.Sprintf("%02X ", value)))
			} else {
				fmt.Fprintf(&out, "%02X ", value)
			}
		}
		out.WriteString(" | ")
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := d.m.Mem.Peek(addr + uint16(col))
			ch := "."
			if value >= 32 && value <= 126 {
				ch = string(value)
			}
			if value != d.lastMemory[offset] {
				out.WriteString(changedStyle.Render(ch))
			} else {
				out.WriteString(ch)
			}
		}
		out.WriteString("\n")
		addr += 8
	}
	return out.String()
}

func (d *Debugger) formatStack() string {
	var out strings.Builder
	for i := uint16(0xFF); i >= uint16(d.current.S); i-- {
		fmt.Fprintf(&out, "$%02X: %02X\n", i, d.m.Mem.Peek(0x100+i))
		if i == 0 {
			break
		}
	}
	return out.String()
}

func (d *Debugger) disassemble() string {
	var out strings.Builder
	for i := 0; i < 20; i++ {
		offset := d.selectedIndex + i
		if offset >= len(d.locations) {
			break
		}
		l := d.locations[offset]
		line := l.String()
		switch {
		case d.breakpoints[l.PC] && l.PC == d.current.PC:
			line = currentLineStyle.Render("● " + line)
		case d.breakpoints[l.PC]:
			line = breakpointStyle.Render("● " + line)
		case l.PC == d.current.PC:
			line = currentLineStyle.Render(line)
		case offset == d.selectedIndex:
			line = selectedLineStyle.Render(line)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func (d *Debugger) View() string {
	rightColumnWidth := 32
	leftColumnWidth := 40

	infoStyle := infoBaseStyle.Width(rightColumnWidth)
	stackPanel := stackBaseStyle.Width(rightColumnWidth)
	disasmPanel := disasmBaseStyle.Width(leftColumnWidth)

	disasm := disasmPanel.Render(fmt.Sprintf("Disassembly\n\n%s", d.disassemble()))

	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s    %s    %s\n%s  %s\n\nFlags: %s\n",
		d.formatReg8("A", d.current.A, d.last.A),
		d.formatReg8("X", d.current.X, d.last.X),
		d.formatReg8("Y", d.current.Y, d.last.Y),
		d.formatReg16("PC", d.current.PC, d.last.PC),
		d.formatReg8("S", d.current.S, d.last.S),
		d.formatFlags(),
	))

	stack := stackPanel.Render(fmt.Sprintf("Stack\n\n%s", d.formatStack()))
	memory := memoryBaseStyle.Render(fmt.Sprintf("Memory (↑↓ to scroll)\n\n%s", d.formatMemory()))

	right := lipgloss.JoinVertical(lipgloss.Left, cpuState, stack, memory)

	var help string
	if d.running {
		help = titleStyle.Render("p: pause • q: quit")
	} else {
		help = titleStyle.Render(
			"s: step • r/p: run/pause • b: toggle break • " +
				"↑↓: scroll • pgup/pgdn: page • tab: switch pane • g: goto • q: quit",
		)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, disasm, lipgloss.PlaceHorizontal(3, lipgloss.Left, right))

	if d.showingGoto {
		dialog := dialogStyle.Render("Go to address:\n\n" + d.gotoInput.View())
		return lipgloss.JoinVertical(lipgloss.Center, content, help, dialog)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, help)
}
