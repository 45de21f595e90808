package video

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

const (
	// cyclesPerLine is the length of one scanline in T-cycles.
	cyclesPerLine = 456
	// totalLines covers the 144 visible lines plus the 10 VBlank lines.
	totalLines = 154
	// vblankStartLine is the first line of the vertical blanking period.
	vblankStartLine = 144
)

// PPU is the scanline counter at the core's boundary: it advances LY every
// 456 T-cycles, raises VBlank when the visible frame ends, and keeps the
// LYC coincidence bit in STAT up to date. The pixel pipeline itself lives
// with the host renderer; VRAM, OAM and the LCD registers are all exposed
// through the bus.
type PPU struct {
	memory *memory.MMU

	cycles int
	line   int
}

// New creates a PPU bound to the given memory unit.
func New(mmu *memory.MMU) *PPU {
	return &PPU{memory: mmu}
}

// Line returns the current scanline.
func (p *PPU) Line() int {
	return p.line
}

// Tick advances the scanline counter by the given number of T-cycles.
func (p *PPU) Tick(cycles int) {
	p.cycles += cycles

	for p.cycles >= cyclesPerLine {
		p.cycles -= cyclesPerLine
		p.setLine((p.line + 1) % totalLines)
	}
}

func (p *PPU) setLine(line int) {
	p.line = line
	p.memory.SetLY(uint8(line))
	p.compareLYToLYC()

	// No commercial ROM progresses without this interrupt.
	if line == vblankStartLine {
		p.memory.RequestInterrupt(addr.VBlankInterrupt)
	}
}

// compareLYToLYC updates the coincidence bit (STAT bit 2) and requests the
// STAT interrupt when the comparison is armed via STAT bit 6.
func (p *PPU) compareLYToLYC() {
	stat := p.memory.Read(addr.STAT)
	lyc := p.memory.Read(addr.LYC)

	if int(lyc) == p.line {
		stat = bit.Set(2, stat)
		if bit.IsSet(6, stat) {
			p.memory.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Reset(2, stat)
	}

	p.memory.Write(addr.STAT, stat)
}
