package memory

import "testing"

func TestNewCartridgeRejectsEmptyImage(t *testing.T) {
	if _, err := NewCartridge(nil); err == nil {
		t.Fatalf("expected an error loading an empty ROM image")
	}
}

func TestCartridgeBankRouting(t *testing.T) {
	data := make([]byte, 0x8000)
	data[0x0000] = 0x11
	data[0x3FFF] = 0x22
	data[0x4000] = 0x33
	data[0x7FFF] = 0x44

	c, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}

	cases := []struct {
		addr uint16
		want uint8
	}{
		{0x0000, 0x11},
		{0x3FFF, 0x22},
		{0x4000, 0x33},
		{0x7FFF, 0x44},
	}
	for _, tc := range cases {
		if got := c.Read8(tc.addr); got != tc.want {
			t.Errorf("Read8(0x%04X) = 0x%02X, want 0x%02X", tc.addr, got, tc.want)
		}
	}
}

func TestCartridgeShortImageZeroFillsRemainder(t *testing.T) {
	data := make([]byte, 0x10)
	data[0] = 0xAB
	c, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if c.Size() != 0x10 {
		t.Fatalf("Size() = %d, want 16", c.Size())
	}
	if got := c.Read8(0x0000); got != 0xAB {
		t.Fatalf("Read8(0) = 0x%02X, want 0xAB", got)
	}
	if got := c.Read8(0x4000); got != 0x00 {
		t.Fatalf("Read8(bank1 start) = 0x%02X, want 0x00 (zero-filled)", got)
	}
}
