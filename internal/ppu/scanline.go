package ppu

// renderScanline composites one full line of background, window, and sprite
// pixels into the framebuffer. Invoked once, when PixelTransfer's dot budget
// runs out (see the note in fetcher.go on why this core evaluates the
// fetcher/FIFO algorithm in one pass rather than dot-by-dot).
func (p *PPU) renderScanline() {
	y := p.ly
	if int(y) >= ScreenHeight {
		return
	}

	bgWindowEnabled := p.lcdc&0x01 != 0
	windowEnabled := p.lcdc&0x20 != 0 && bgWindowEnabled
	spritesEnabled := p.lcdc&0x02 != 0

	usedWindow := false

	for x := 0; x < ScreenWidth; x++ {
		var bgIdx uint8

		inWindow := windowEnabled && int(p.wy) <= int(y) && x >= int(p.wx)-7
		switch {
		case inWindow:
			winX := uint8(x - (int(p.wx) - 7))
			bgIdx = p.windowColorIndex(winX, uint8(p.windowLineCounter))
			usedWindow = true
		case bgWindowEnabled:
			bgX := uint8(int(p.scx) + x)
			bgY := uint8(int(p.scy) + int(y))
			bgIdx = p.bgColorIndex(bgX, bgY)
		default:
			bgIdx = 0
		}

		finalShade := shade(p.bgp, bgIdx)

		if spritesEnabled {
			for i := 0; i < p.spriteCount; i++ {
				s := &p.sprites[i]
				spriteX := int(s.x) - 8
				if x < spriteX || x >= spriteX+8 {
					continue
				}
				idx, opaque := p.spriteColorIndex(s, x)
				if !opaque {
					continue
				}
				if s.attr&0x80 != 0 && bgIdx != 0 {
					continue // behind background colors 1-3
				}
				pal := p.obp0
				if s.attr&0x10 != 0 {
					pal = p.obp1
				}
				finalShade = shade(pal, idx)
				break // sprites are X-sorted; first opaque hit wins priority
			}
		}

		p.buffer[int(y)*ScreenWidth+x] = finalShade
	}

	if usedWindow {
		p.windowLineCounter++
	}
}
