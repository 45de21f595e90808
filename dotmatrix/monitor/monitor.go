// Package monitor implements a small tcell dashboard that runs the emulator
// and shows live core state: CPU registers, timer, APU channel activity and
// the serial debug tail. It is a host-side debug surface, the core never
// depends on it.
package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-dotmatrix/dotmatrix"
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

// Monitor drives an emulator at frame granularity while rendering its state.
type Monitor struct {
	emu    *dotmatrix.Emulator
	screen tcell.Screen
}

// New creates a monitor for the given emulator.
func New(emu *dotmatrix.Emulator) *Monitor {
	return &Monitor{emu: emu}
}

// Run takes over the terminal until the user quits with ESC or 'q'.
func (m *Monitor) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	m.screen = screen
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if quit := m.handleEvent(ev); quit {
				return nil
			}
		case <-ticker.C:
			m.emu.RunFrame()
			m.draw()
		}
	}
}

func (m *Monitor) handleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	if key.Key() == tcell.KeyEscape || key.Rune() == 'q' {
		return true
	}

	// Terminals report no key-up events, so a tap is a press+release pair.
	if jk, ok := joypadKeyFor(key); ok {
		m.emu.PressKey(jk)
		go func() {
			time.Sleep(50 * time.Millisecond)
			m.emu.ReleaseKey(jk)
		}()
	}
	return false
}

func joypadKeyFor(key *tcell.EventKey) (memory.JoypadKey, bool) {
	switch key.Key() {
	case tcell.KeyUp:
		return memory.JoypadUp, true
	case tcell.KeyDown:
		return memory.JoypadDown, true
	case tcell.KeyLeft:
		return memory.JoypadLeft, true
	case tcell.KeyRight:
		return memory.JoypadRight, true
	}

	switch key.Rune() {
	case 'z':
		return memory.JoypadA, true
	case 'x':
		return memory.JoypadB, true
	case ' ':
		return memory.JoypadSelect, true
	}
	if key.Key() == tcell.KeyEnter {
		return memory.JoypadStart, true
	}
	return 0, false
}

func (m *Monitor) draw() {
	m.screen.Clear()

	cpu := m.emu.CPU()
	mmu := m.emu.MMU()
	af, bc, de, hl := cpu.Registers()

	m.print(0, 0, "dotmatrix monitor - ESC/q to quit")
	m.print(0, 2, fmt.Sprintf("PC %04X  SP %04X  halted=%v", cpu.PC(), cpu.SP(), cpu.Halted()))
	m.print(0, 3, fmt.Sprintf("AF %04X  BC %04X  DE %04X  HL %04X", af, bc, de, hl))
	m.print(0, 5, fmt.Sprintf("DIV %02X  TIMA %02X  TMA %02X  TAC %02X",
		mmu.Read(addr.DIV), mmu.Read(addr.TIMA), mmu.Read(addr.TMA), mmu.Read(addr.TAC)))
	m.print(0, 6, fmt.Sprintf("IF %02X  IE %02X  LY %02X",
		mmu.Read(addr.IF), mmu.Read(addr.IE), mmu.Read(addr.LY)))

	ch1, ch2, ch3, ch4 := mmu.APU.GetChannelStatus()
	m.print(0, 8, fmt.Sprintf("APU NR52 %02X  ch1=%v ch2=%v ch3=%v ch4=%v",
		mmu.Read(addr.NR52), ch1, ch2, ch3, ch4))

	row := 10
	m.print(0, row, "serial:")
	for i, line := range m.emu.SerialTail() {
		m.print(2, row+1+i, line)
	}

	m.screen.Show()
}

func (m *Monitor) print(x, y int, text string) {
	style := tcell.StyleDefault
	for i, r := range text {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
