// Package emulator wires the CPU, bus, PPU, and joypad into the single
// step loop described in the orchestrator component design.
package emulator

import (
	"fmt"

	"gbcore/internal/cpu"
	"gbcore/internal/debug"
	"gbcore/internal/input"
	"gbcore/internal/memory"
	"gbcore/internal/ppu"
)

// dotsPerFrame is the DMG's fixed 70224 dots/frame (456 dots * 154 lines),
// which at the 4.194304 MHz dot clock yields the documented ~59.7 Hz.
const dotsPerFrame = 70224

// TimeoutError is returned by Run when the optional cycle ceiling is
// reached before the requested number of frames was produced (§4.4.1).
type TimeoutError struct {
	CyclesRun uint64
	Ceiling   uint64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("cycle ceiling reached: ran %d of %d T-cycles", e.CyclesRun, e.Ceiling)
}

// Console owns every component and drives the CPU-fetch / PPU-dot / timer-
// tick loop. It is the sole caller of cpu.CPU.Step and ppu.PPU.Step, per the
// single-owner design note carried over from the bus (spec §9).
type Console struct {
	bus    *memory.Bus
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	joypad *input.Joypad

	logger *debug.Logger

	cycleCeiling uint64
	cyclesRun    uint64
}

// New builds a Console with no ROM loaded. LoadROM must be called before
// Step/Run.
func New() *Console {
	c := &Console{
		cpu:    cpu.New(),
		ppu:    ppu.New(),
		joypad: input.NewJoypad(),
	}
	return c
}

// SetLogger installs the shared async logger across every component.
func (c *Console) SetLogger(logger *debug.Logger) {
	c.logger = logger
	c.cpu.SetLogger(cpu.NewDebugLoggerAdapter(logger))
	c.ppu.SetLogger(logger)
	if c.bus != nil {
		c.bus.SetLogger(logger)
	}
}

// LoadROM replaces the cartridge and resets the CPU to its documented
// post-boot-ROM state.
func (c *Console) LoadROM(data []byte) error {
	cart, err := memory.NewCartridge(data)
	if err != nil {
		return err
	}

	bus := memory.NewBus(cart)
	bus.SetPPU(c.ppu)
	bus.SetInput(c.joypad)
	if c.logger != nil {
		bus.SetLogger(c.logger)
	}
	c.bus = bus
	c.joypad.SetInterruptRequester(func() { bus.Interrupts.Request(memory.IntJoypad) })
	c.ppu.SetSources(bus, bus, &bus.Interrupts)

	c.cpu.Reset()
	c.cyclesRun = 0
	return nil
}

// SetDoctorMode toggles the LY stub used by Gameboy Doctor-style trace
// comparison harnesses (see memory.Bus.SetDoctorMode).
func (c *Console) SetDoctorMode(on bool) { c.bus.SetDoctorMode(on) }

// SetSerialSink installs the callback invoked with each byte written via
// the serial test-output convention; Blargg ROMs use this exclusively.
func (c *Console) SetSerialSink(sink func(byte)) { c.bus.SetSerialSink(sink) }

// SetCycleCeiling bounds Run to at most n T-cycles; 0 means unbounded. This
// is the cycle-ceiling escape hatch resolved in §4.4.1, used by test
// harnesses to bound ROMs that never terminate on their own.
func (c *Console) SetCycleCeiling(n uint64) { c.cycleCeiling = n }

// Buttons reports to the joypad which face buttons are currently held.
func (c *Console) Buttons(a, b, sel, start bool) { c.joypad.SetButtons(a, b, sel, start) }

// Dpad reports to the joypad which directions are currently held.
func (c *Console) Dpad(right, left, up, down bool) { c.joypad.SetDpad(right, left, up, down) }

// Step runs CPU instructions (and any pending interrupt dispatch) until a
// full PPU frame has been produced, then returns the framebuffer and the
// cumulative T-cycle count since LoadROM.
//
// Each CPU instruction's T-cycles are halved into PPU dots (the PPU's dot
// clock runs at twice the CPU's M-cycle-derived rate) and fed to both the
// PPU and the bus's DIV/TIMA timer, per the orchestrator design (§4.4). Any
// OAM DMA charge recorded by the bus during the previous instruction is
// applied before the next CPU.Step call, since the real hardware stalls the
// CPU for the transfer rather than the PPU.
func (c *Console) Step() ([ppu.ScreenWidth * ppu.ScreenHeight]uint8, uint64, error) {
	dotsThisFrame := uint64(0)

	for dotsThisFrame < dotsPerFrame {
		// The bus records the DMA charge in machine cycles (4 T-cycles each).
		if charge := c.bus.ConsumeDMACharge() * 4; charge > 0 {
			c.cpu.ChargeCycles(charge)
			c.cyclesRun += charge
			c.bus.Tick(charge)
			c.ppu.Step(int(charge / 2))
			dotsThisFrame += charge / 2
		}

		if c.cycleCeiling != 0 && c.cyclesRun >= c.cycleCeiling {
			var fb [ppu.ScreenWidth * ppu.ScreenHeight]uint8
			return fb, c.cyclesRun, &TimeoutError{CyclesRun: c.cyclesRun, Ceiling: c.cycleCeiling}
		}

		delta, err := c.cpu.Step(c.bus, c.bus)
		c.cyclesRun += delta
		c.bus.Tick(delta)
		c.ppu.Step(int(delta / 2))
		dotsThisFrame += delta / 2

		if err != nil {
			var fb [ppu.ScreenWidth * ppu.ScreenHeight]uint8
			return fb, c.cyclesRun, err
		}

		if c.ppu.FrameReady() {
			return c.ppu.TakeFrame(), c.cyclesRun, nil
		}
	}

	return c.ppu.TakeFrame(), c.cyclesRun, nil
}

// Run calls Step repeatedly until frames frames have been produced or the
// cycle ceiling trips, discarding intermediate framebuffers and returning
// only the last one.
func (c *Console) Run(frames int) ([ppu.ScreenWidth * ppu.ScreenHeight]uint8, error) {
	var fb [ppu.ScreenWidth * ppu.ScreenHeight]uint8
	var err error
	for i := 0; i < frames; i++ {
		fb, _, err = c.Step()
		if err != nil {
			return fb, err
		}
	}
	return fb, nil
}

// CPUState exposes the current CPU register snapshot, e.g. for trace tools.
func (c *Console) CPUState() cpu.CPUState { return c.cpu.State() }

// StepInstruction runs exactly one CPU instruction (or interrupt dispatch,
// or HALT stall), advancing the PPU and timer by the same T-cycles, and
// reports whether a frame is ready; the frame itself is not returned.
// Intended for single-step trace tooling, where Step's whole-frame grain is
// too coarse.
func (c *Console) StepInstruction() (delta uint64, frameReady bool, err error) {
	if charge := c.bus.ConsumeDMACharge() * 4; charge > 0 {
		c.cpu.ChargeCycles(charge)
		c.cyclesRun += charge
		c.bus.Tick(charge)
		c.ppu.Step(int(charge / 2))
	}

	delta, err = c.cpu.Step(c.bus, c.bus)
	c.cyclesRun += delta
	c.bus.Tick(delta)
	c.ppu.Step(int(delta / 2))

	return delta, c.ppu.FrameReady(), err
}
