package emulator

import "testing"

// blankROM returns a cartridge image that sits in a tight JR-to-self loop
// at the DMG's post-boot entry point (0x0100), enough to drive the PPU/
// timer through full frames without needing real game logic.
func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x18 // JR -2
	rom[0x0101] = 0xFE
	return rom
}

func TestConsoleLoadROMResetsCPU(t *testing.T) {
	c := New()
	if err := c.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	st := c.CPUState()
	if st.PC != 0x0100 {
		t.Fatalf("PC = 0x%04X, want 0x0100 after LoadROM", st.PC)
	}
	if st.SP != 0xFFFE {
		t.Fatalf("SP = 0x%04X, want 0xFFFE after LoadROM", st.SP)
	}
}

func TestConsoleStepProducesAFrame(t *testing.T) {
	c := New()
	if err := c.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	_, cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles == 0 {
		t.Fatalf("expected nonzero T-cycles consumed producing a frame")
	}
}

func TestConsoleCycleCeilingReportsTimeout(t *testing.T) {
	c := New()
	if err := c.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	c.SetCycleCeiling(40) // far short of one frame's ~70224 dots worth of cycles

	_, _, err := c.Step()
	if err == nil {
		t.Fatalf("expected a timeout error well before a frame completes")
	}
	if _, ok := err.(*TimeoutError); !ok {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
}

func TestConsoleSerialSinkReceivesBytes(t *testing.T) {
	rom := make([]byte, 0x8000)
	// LD A,'X' ; LD (0xFF01),A ; LD A,0x81 ; LD (0xFF02),A ; JR -2 (self loop)
	prog := []byte{
		0x3E, 'X', // LD A,'X'
		0xEA, 0x01, 0xFF, // LD (0xFF01),A
		0x3E, 0x81, // LD A,0x81
		0xEA, 0x02, 0xFF, // LD (0xFF02),A
		0x18, 0xFE, // JR -2
	}
	copy(rom[0x0100:], prog)

	c := New()
	if err := c.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	var got []byte
	c.SetSerialSink(func(b byte) { got = append(got, b) })

	for i := 0; i < 20 && len(got) == 0; i++ {
		if _, _, err := c.StepInstruction(); err != nil {
			t.Fatalf("StepInstruction: %v", err)
		}
	}

	if len(got) == 0 || got[0] != 'X' {
		t.Fatalf("expected serial sink to receive 'X', got %v", got)
	}
}

func TestConsoleButtonPressRaisesJoypadInterrupt(t *testing.T) {
	c := New()
	if err := c.LoadROM(blankROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	c.bus.Interrupts.IE = 0xFF
	c.Buttons(true, false, false, false)
	if c.bus.Interrupts.IF&0x10 == 0 {
		t.Fatalf("expected IntJoypad requested after a button press")
	}
}
