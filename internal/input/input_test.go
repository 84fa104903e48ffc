package input

import "testing"

func TestJoypadRowSelection(t *testing.T) {
	j := NewJoypad()
	j.SetButtons(true, false, false, true) // A, Start
	j.SetDpad(false, true, false, false)   // Left

	j.Write8(0xFF00, 0x10) // select buttons (bit5 clear), d-pad unselected (bit4 set)
	if got := j.Read8(0xFF00); got&0x0F != 0x06 {
		t.Fatalf("button row read = 0x%02X, want low nibble 0x06 (A and Start pressed -> bits 0 and 3 clear)", got&0x0F)
	}

	j.Write8(0xFF00, 0x20) // select d-pad (bit4 clear)
	if got := j.Read8(0xFF00); got&0x0F != 0x0D {
		t.Fatalf("dpad row read = 0x%02X, want low nibble 0x0D (Left pressed -> bit1 clear)", got&0x0F)
	}
}

func TestJoypadUnselectedRowReadsAllHigh(t *testing.T) {
	j := NewJoypad()
	j.SetButtons(true, true, true, true)
	j.Write8(0xFF00, 0x30) // neither row selected
	if got := j.Read8(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("unselected rows should read 0x0F, got 0x%02X", got&0x0F)
	}
}

func TestJoypadTopBitsAlwaysHigh(t *testing.T) {
	j := NewJoypad()
	if got := j.Read8(0xFF00); got&0xC0 != 0xC0 {
		t.Fatalf("bits 7/6 should always read 1, got 0x%02X", got)
	}
}

func TestJoypadInterruptOnPress(t *testing.T) {
	j := NewJoypad()
	fired := false
	j.SetInterruptRequester(func() { fired = true })
	j.SetButtons(true, false, false, false)
	if !fired {
		t.Fatalf("expected joypad interrupt requester to fire on a button transitioning to pressed")
	}
}
