package ppu

import (
	"gbcore/internal/debug"
	"gbcore/internal/memory"
)

// PPU modes, matching STAT's low 2 bits.
const (
	ModeHBlank = 0
	ModeVBlank = 1
	ModeOAM    = 2
	ModeXfer   = 3
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
	dotsPerLine  = 456
	oamDots      = 80
)

// MemoryReader is the VRAM/OAM read surface the PPU needs from the bus.
// Satisfied directly by *memory.Bus.
type MemoryReader interface {
	Read8(addr uint16) uint8
}

// OAMReader exposes raw OAM bytes independent of CPU-visible OAM blocking.
type OAMReader interface {
	ReadOAM(offset uint8) uint8
}

type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         uint8
}

// PPU implements the scanline/FIFO pixel pipeline (§4.3). It owns no memory
// of its own beyond its framebuffer and per-line sprite cache; VRAM/OAM
// reads go through the bus via the MemoryReader/OAMReader interfaces handed
// in by SetSources, per the single-owner design note (§9).
type PPU struct {
	lcdc, scy, scx, lyc, bgp, obp0, obp1, wy, wx uint8
	ly                                           uint8

	lycIntEnable, mode2IntEnable, mode1IntEnable, mode0IntEnable bool
	coincidence                                                  bool

	mode              uint8
	modeDotsRemaining int
	lineDot           int
	frameDots         uint64

	spriteCount int
	sprites     [10]spriteEntry

	windowLineCounter int

	buffer      [ScreenWidth * ScreenHeight]uint8
	frameReady  bool
	frameNumber uint64

	mem MemoryReader
	oam OAMReader
	irq *memory.Interrupts

	logger *debug.Logger
}

// New creates a PPU. SetSources must be called before Step or register
// reads/writes that touch VRAM/OAM.
func New() *PPU {
	p := &PPU{mode: ModeOAM, modeDotsRemaining: oamDots}
	return p
}

// SetSources wires the bus-backed memory/OAM readers and the shared
// interrupt register pair the PPU raises VBlank/STAT through.
func (p *PPU) SetSources(mem MemoryReader, oam OAMReader, irq *memory.Interrupts) {
	p.mem, p.oam, p.irq = mem, oam, irq
	p.scanOAM() // populate the cache for the very first OAM-search phase
}

func (p *PPU) SetLogger(l *debug.Logger) { p.logger = l }

// GetLY, GetMode, GetDot satisfy debug.PPUStateReader for trace tooling.
func (p *PPU) GetLY() uint8  { return p.ly }
func (p *PPU) GetMode() uint8 { return p.mode }
func (p *PPU) GetDot() int   { return p.lineDot }

// FrameReady reports whether a new frame has been published since the last
// TakeFrame call.
func (p *PPU) FrameReady() bool { return p.frameReady }

// TakeFrame returns the current framebuffer (160x144, 2-bit DMG shades) and
// clears the ready flag.
func (p *PPU) TakeFrame() [ScreenWidth * ScreenHeight]uint8 {
	p.frameReady = false
	return p.buffer
}

// Read8 implements memory.IOHandler for the LCD register block
// (0xFF40-0xFF4B, excluding 0xFF46 which the bus handles itself as DMA).
func (p *PPU) Read8(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		stat := uint8(0x80) | p.mode
		if p.coincidence {
			stat |= 0x04
		}
		if p.lycIntEnable {
			stat |= 0x40
		}
		if p.mode2IntEnable {
			stat |= 0x20
		}
		if p.mode1IntEnable {
			stat |= 0x10
		}
		if p.mode0IntEnable {
			stat |= 0x08
		}
		return stat
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

// Write8 implements memory.IOHandler for the LCD register block.
func (p *PPU) Write8(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := p.lcdc&0x80 != 0
		p.lcdc = v
		if wasEnabled && v&0x80 == 0 {
			p.disableLCD()
		}
	case 0xFF41:
		p.lycIntEnable = v&0x40 != 0
		p.mode2IntEnable = v&0x20 != 0
		p.mode1IntEnable = v&0x10 != 0
		p.mode0IntEnable = v&0x08 != 0
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// LY is read-only from the CPU's perspective.
	case 0xFF45:
		p.lyc = v
		p.updateCoincidence()
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

func (p *PPU) disableLCD() {
	p.ly = 0
	p.lineDot = 0
	p.mode = ModeOAM
	p.modeDotsRemaining = oamDots
	p.windowLineCounter = 0

	if p.logger != nil && p.logger.IsComponentEnabled(debug.ComponentPPU) {
		p.logger.LogPPU(debug.LogLevelInfo, "lcd disabled, LY/mode reset", nil)
	}
}

func (p *PPU) updateCoincidence() {
	now := p.ly == p.lyc
	rising := now && !p.coincidence
	p.coincidence = now
	if rising && p.lycIntEnable {
		p.requestSTAT()
	}
}

func (p *PPU) requestSTAT() {
	if p.irq != nil {
		p.irq.Request(memory.IntSTAT)
	}
}

func (p *PPU) requestVBlank() {
	if p.irq != nil {
		p.irq.Request(memory.IntVBlank)
	}
}

// Step advances the PPU by the given number of dots (§4.4: called with
// CPU T-cycles/2 from the orchestrator).
func (p *PPU) Step(dots int) {
	if p.lcdc&0x80 == 0 {
		return
	}
	for dots > 0 {
		step := dots
		if step > p.modeDotsRemaining {
			step = p.modeDotsRemaining
		}
		p.modeDotsRemaining -= step
		p.lineDot += step
		p.frameDots += uint64(step)
		dots -= step
		if p.modeDotsRemaining == 0 {
			p.transition()
		}
	}
}

// transition runs whenever the current mode's dot budget is exhausted.
func (p *PPU) transition() {
	switch p.mode {
	case ModeOAM:
		p.enterMode(ModeXfer, 172+12*p.spriteCount)
	case ModeXfer:
		p.renderScanline()
		p.enterMode(ModeHBlank, 204-12*p.spriteCount)
	case ModeHBlank:
		p.ly++
		p.lineDot = 0
		p.updateCoincidence()
		if p.ly == ScreenHeight {
			p.enterMode(ModeVBlank, dotsPerLine)
			p.requestVBlank()
			if p.mode1IntEnable {
				p.requestSTAT()
			}
			if p.logger != nil && p.logger.IsComponentEnabled(debug.ComponentPPU) {
				p.logger.LogPPU(debug.LogLevelTrace, "vblank entered", map[string]interface{}{"frame": p.frameNumber + 1})
			}
		} else {
			p.enterOAM()
		}
	case ModeVBlank:
		p.ly++
		p.lineDot = 0
		if p.ly > 153 {
			p.ly = 0
			p.publishFrame()
			p.updateCoincidence()
			p.enterOAM()
		} else {
			p.updateCoincidence()
			p.modeDotsRemaining = dotsPerLine
		}
	}
}

func (p *PPU) enterMode(mode uint8, dots int) {
	p.mode = mode
	p.modeDotsRemaining = dots
	if (mode == ModeHBlank && p.mode0IntEnable) || (mode == ModeOAM && p.mode2IntEnable) {
		p.requestSTAT()
	}
}

func (p *PPU) enterOAM() {
	p.scanOAM()
	p.enterMode(ModeOAM, oamDots)
}

func (p *PPU) publishFrame() {
	p.frameReady = true
	p.frameNumber++
	p.windowLineCounter = 0

	if p.logger != nil && p.logger.IsComponentEnabled(debug.ComponentPPU) {
		p.logger.LogPPU(debug.LogLevelDebug, "frame published", map[string]interface{}{"frame": p.frameNumber})
	}
}
