package input

// Joypad implements the DMG P1/JOYP register (0xFF00). Bits 5/4 select
// which row of four buttons is visible on bits 3..0; unselected rows read
// as 1 (not pressed). Bits 7/6 always read back as 1.
//
// Supplementing the distilled spec's "a single input byte": real ROMs
// (including Blargg's) poll this register with row selection, so the core
// implements the documented hardware encoding rather than a raw bit mirror.
type Joypad struct {
	selectButtons bool // bit 5 clear: button row (A,B,Select,Start) selected
	selectDpad    bool // bit 4 clear: d-pad row (Right,Left,Up,Down) selected

	buttons uint8 // bit0=A bit1=B bit2=Select bit3=Start, 1=pressed
	dpad    uint8 // bit0=Right bit1=Left bit2=Up bit3=Down, 1=pressed

	requestIRQ func()
}

// NewJoypad creates an input register with no buttons pressed.
func NewJoypad() *Joypad {
	return &Joypad{}
}

// SetInterruptRequester installs the callback used to raise IF.Joypad
// whenever the host reports a button transitioning to pressed.
func (j *Joypad) SetInterruptRequester(f func()) { j.requestIRQ = f }

// Read8 returns the current P1 value. addr is accepted for interface
// symmetry with other bus-routed peripherals; only 0xFF00 is meaningful.
func (j *Joypad) Read8(addr uint16) uint8 {
	result := uint8(0xC0) // bits 7,6 always 1
	if !j.selectButtons {
		result |= 0x20
	}
	if !j.selectDpad {
		result |= 0x10
	}

	nibble := uint8(0x0F)
	if j.selectButtons {
		nibble &= ^j.buttons & 0x0F
	}
	if j.selectDpad {
		nibble &= ^j.dpad & 0x0F
	}
	return result | nibble
}

// Write8 updates the row-select bits; the lower nibble is read-only from
// the CPU's perspective (hardware drives it from button state).
func (j *Joypad) Write8(addr uint16, value uint8) {
	j.selectButtons = value&0x20 == 0
	j.selectDpad = value&0x10 == 0
}

func (j *Joypad) Read16(addr uint16) uint16 {
	return uint16(j.Read8(addr)) | uint16(j.Read8(addr+1))<<8
}

func (j *Joypad) Write16(addr uint16, value uint16) {
	j.Write8(addr, uint8(value))
	j.Write8(addr+1, uint8(value>>8))
}

// SetButtons latches the four face/start buttons: A, B, Select, Start.
func (j *Joypad) SetButtons(a, b, sel, start bool) {
	j.setRow(&j.buttons, a, b, sel, start)
}

// SetDpad latches the four directional inputs: Right, Left, Up, Down.
func (j *Joypad) SetDpad(right, left, up, down bool) {
	j.setRow(&j.dpad, right, left, up, down)
}

func (j *Joypad) setRow(row *uint8, b0, b1, b2, b3 bool) {
	next := uint8(0)
	if b0 {
		next |= 1 << 0
	}
	if b1 {
		next |= 1 << 1
	}
	if b2 {
		next |= 1 << 2
	}
	if b3 {
		next |= 1 << 3
	}
	if next&^*row != 0 && j.requestIRQ != nil {
		j.requestIRQ()
	}
	*row = next
}
