package ppu

// scanOAM rebuilds the current line's sprite cache: up to 10 entries,
// X-sorted (stable on OAM index, matching real hardware priority), found by
// walking all 40 OAM entries and testing Y against the active sprite height.
func (p *PPU) scanOAM() {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	p.spriteCount = 0
	line := int(p.ly)

	for i := uint8(0); i < 40 && p.spriteCount < 10; i++ {
		base := i * 4
		y := int(p.oam.ReadOAM(base)) - 16
		if line < y || line >= y+height {
			continue
		}
		p.sprites[p.spriteCount] = spriteEntry{
			y:        p.oam.ReadOAM(base),
			x:        p.oam.ReadOAM(base + 1),
			tile:     p.oam.ReadOAM(base + 2),
			attr:     p.oam.ReadOAM(base + 3),
			oamIndex: i,
		}
		p.spriteCount++
	}

	// DMG priority: smaller X wins; OAM index breaks ties. insertion sort is
	// plenty for 10 elements and keeps the tie-break stable.
	for i := 1; i < p.spriteCount; i++ {
		j := i
		for j > 0 && p.sprites[j-1].x > p.sprites[j].x {
			p.sprites[j-1], p.sprites[j] = p.sprites[j], p.sprites[j-1]
			j--
		}
	}
}
