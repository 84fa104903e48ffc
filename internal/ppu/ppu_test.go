package ppu

import (
	"gbcore/internal/memory"
	"testing"
)

type stubMem struct {
	data map[uint16]uint8
}

func newStubMem() *stubMem { return &stubMem{data: map[uint16]uint8{}} }

func (s *stubMem) Read8(addr uint16) uint8 { return s.data[addr] }

type stubOAM struct {
	entries [40][4]uint8
}

func (s *stubOAM) ReadOAM(offset uint8) uint8 {
	entry := offset / 4
	field := offset % 4
	return s.entries[entry][field]
}

func newTestPPU() (*PPU, *stubMem, *stubOAM, *memory.Interrupts) {
	p := New()
	mem := newStubMem()
	oam := &stubOAM{}
	irq := &memory.Interrupts{IE: 0xFF}
	p.SetSources(mem, oam, irq)
	p.Write8(0xFF40, 0x80) // LCD on, everything else off
	return p, mem, oam, irq
}

func TestPPUFrameIsExactly70224Dots(t *testing.T) {
	p, _, _, _ := newTestPPU()

	p.Step(dotsPerLine*ScreenHeight + dotsPerLine*10) // 70224

	if !p.FrameReady() {
		t.Fatalf("expected a frame to be published after exactly one frame's worth of dots")
	}
	if p.GetLY() != 0 {
		t.Fatalf("LY = %d, want 0 at the start of the next frame", p.GetLY())
	}
	if p.GetMode() != ModeOAM {
		t.Fatalf("mode = %d, want ModeOAM at the start of the next frame", p.GetMode())
	}
}

func TestPPUModeSequencePerLine(t *testing.T) {
	p, _, _, _ := newTestPPU()

	if p.GetMode() != ModeOAM {
		t.Fatalf("initial mode = %d, want ModeOAM", p.GetMode())
	}
	p.Step(oamDots)
	if p.GetMode() != ModeXfer {
		t.Fatalf("mode after OAM search = %d, want ModeXfer", p.GetMode())
	}
	p.Step(172) // no sprites on this line, so Xfer is exactly 172 dots
	if p.GetMode() != ModeHBlank {
		t.Fatalf("mode after pixel transfer = %d, want ModeHBlank", p.GetMode())
	}
	p.Step(204)
	if p.GetLY() != 1 {
		t.Fatalf("LY = %d, want 1 after first line's HBlank completes", p.GetLY())
	}
	if p.GetMode() != ModeOAM {
		t.Fatalf("mode after HBlank = %d, want ModeOAM for the next line", p.GetMode())
	}
}

func TestPPUEntersVBlankAtLine144AndRaisesInterrupt(t *testing.T) {
	p, _, _, irq := newTestPPU()

	p.Step(dotsPerLine * ScreenHeight)

	if p.GetLY() != ScreenHeight {
		t.Fatalf("LY = %d, want %d at VBlank entry", p.GetLY(), ScreenHeight)
	}
	if p.GetMode() != ModeVBlank {
		t.Fatalf("mode = %d, want ModeVBlank", p.GetMode())
	}
	if irq.IF&memory.IntVBlank == 0 {
		t.Fatalf("expected IntVBlank requested on entering VBlank")
	}
}

func TestPPULYCCoincidenceRaisesSTAT(t *testing.T) {
	p, _, _, irq := newTestPPU()
	p.Write8(0xFF41, 0x40) // enable LYC=LY STAT interrupt
	p.Write8(0xFF45, 1)    // LYC = 1

	p.Step(dotsPerLine) // advance exactly one line: LY becomes 1

	if p.GetLY() != 1 {
		t.Fatalf("LY = %d, want 1", p.GetLY())
	}
	if irq.IF&memory.IntSTAT == 0 {
		t.Fatalf("expected IntSTAT requested on LYC=LY coincidence")
	}
	if p.Read8(0xFF41)&0x04 == 0 {
		t.Fatalf("expected STAT coincidence flag (bit 2) set")
	}
}

func TestOAMScanCapsAtTenAndSortsByX(t *testing.T) {
	p, _, oam, _ := newTestPPU()

	// 12 sprites all visible on line 0, descending X order so the scan's
	// stable sort has to do real work.
	for i := 0; i < 12; i++ {
		oam.entries[i] = [4]uint8{16, uint8(100 - i), 0, 0} // y=16 -> screen row 0
	}
	p.scanOAM()

	if p.spriteCount != 10 {
		t.Fatalf("spriteCount = %d, want 10 (OAM scan caps at 10 per line)", p.spriteCount)
	}
	for i := 1; i < p.spriteCount; i++ {
		if p.sprites[i-1].x > p.sprites[i].x {
			t.Fatalf("sprites not X-sorted: [%d].x=%d > [%d].x=%d", i-1, p.sprites[i-1].x, i, p.sprites[i].x)
		}
	}
}

func TestPaletteShadeExtraction(t *testing.T) {
	// BGP = 0b11_10_01_00: color0->0, color1->1, color2->2, color3->3
	bgp := uint8(0b11_10_01_00)
	for idx := uint8(0); idx < 4; idx++ {
		if got := shade(bgp, idx); got != idx {
			t.Errorf("shade(0x%02X, %d) = %d, want %d", bgp, idx, got, idx)
		}
	}
}
