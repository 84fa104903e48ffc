package cpu

import "fmt"

// Flag bit positions within F. The low nibble of F is always zero.
const (
	FlagZ uint8 = 1 << 7
	FlagN uint8 = 1 << 6
	FlagH uint8 = 1 << 5
	FlagC uint8 = 1 << 4
)

// MemoryInterface is the bus surface the CPU needs. Satisfied by
// *memory.Bus; kept as an interface so the CPU package never imports the
// memory package and can be unit tested against a mock.
type MemoryInterface interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, value uint8)
	Read16(addr uint16) uint16
	Write16(addr uint16, value uint16)
}

// InterruptController is the IE/IF surface the CPU polls each step.
// Satisfied by *memory.Bus (which forwards to its embedded Interrupts).
type InterruptController interface {
	Pending() bool
	Dispatch() (addr uint16, ok bool)
}

// LoggerInterface receives one call per retired instruction. Nil-safe: the
// CPU never assumes a logger is attached.
type LoggerInterface interface {
	LogCPU(pc uint16, opcode uint8, cb bool, cbOpcode uint8, state CPUState)
}

// CPUState is a read-only snapshot of the register file, used for logging
// and tests without exposing mutable CPU internals.
type CPUState struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Halted                 bool
	Cycles                 uint64
}

// UnimplementedOpcodeError is returned by Step when decode lands on a table
// slot with no installed handler (§7 error taxonomy). This should only
// happen for the handful of opcode bytes the real LR35902 never defines.
type UnimplementedOpcodeError struct {
	PC     uint16
	Opcode uint8
	CB     bool
}

func (e *UnimplementedOpcodeError) Error() string {
	if e.CB {
		return fmt.Sprintf("unimplemented CB opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("unimplemented opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU holds the Sharp LR35902 register file and dispatch state. It stores
// no reference back to the bus; one is passed into every Step call, per the
// single-owner design note (spec §9) that replaces the source's
// shared-interior-mutable bus handle.
type CPU struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16

	ime        bool
	imePending bool
	halted     bool
	cycles     uint64

	branchTaken bool

	logger LoggerInterface
}

// New creates a CPU with all registers zeroed. Callers typically follow
// with Reset to install the documented DMG post-boot-ROM register values.
func New() *CPU {
	return &CPU{}
}

// SetLogger installs (or clears, with nil) the per-instruction logger.
func (c *CPU) SetLogger(l LoggerInterface) { c.logger = l }

// Reset installs the register values the DMG boot ROM leaves behind when it
// hands control to cartridge code at 0x0100 (§8 scenario 1's seed state).
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.ime = false
	c.imePending = false
	c.halted = false
	c.cycles = 0
}

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v)&0xF0 }
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// Cycles returns the cumulative T-cycle count since Reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Halted reports whether the CPU is waiting in HALT.
func (c *CPU) Halted() bool { return c.halted }

// IME reports the current interrupt master enable state.
func (c *CPU) IME() bool { return c.ime }

// State snapshots the register file for logging/tests.
func (c *CPU) State() CPUState {
	return CPUState{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC, IME: c.ime, Halted: c.halted, Cycles: c.cycles,
	}
}

// ChargeCycles adds externally-incurred cycles (OAM DMA) to the clock
// without going through instruction dispatch (§9 DMA timing resolution).
func (c *CPU) ChargeCycles(n uint64) { c.cycles += n }

// Step executes exactly one instruction or interrupt dispatch and returns
// the number of T-cycles it took. On decode failure it returns 4 (the
// HALT-equivalent stall charge) and a non-nil *UnimplementedOpcodeError.
func (c *CPU) Step(m MemoryInterface, irq InterruptController) (uint64, error) {
	if c.halted {
		if irq.Pending() {
			c.halted = false
		} else {
			c.cycles += 4
			return 4, nil
		}
	}

	if c.ime {
		if addr, ok := irq.Dispatch(); ok {
			c.ime = false
			c.pushPC16(m)
			c.PC = addr
			c.cycles += 20
			return 20, nil
		}
	}

	wasPending := c.imePending
	fetchPC := c.PC
	opcode := m.Read8(c.PC)
	c.PC++

	var entry *opcodeEntry
	isCB := opcode == 0xCB
	cbOpcode := uint8(0)
	if isCB {
		cbOpcode = m.Read8(c.PC)
		c.PC++
		entry = &cbTable[cbOpcode]
	} else {
		entry = &primaryTable[opcode]
	}

	if entry.fn == nil {
		c.cycles += 4
		pc := c.PC - 1
		if isCB {
			pc--
		}
		return 4, &UnimplementedOpcodeError{PC: pc, Opcode: opcode, CB: isCB}
	}

	c.branchTaken = false
	entry.fn(c, m, entry.op1, entry.op2)

	cycles := uint64(entry.cycles)
	if entry.branchCycles != 0 && c.branchTaken {
		cycles = uint64(entry.branchCycles)
	}
	c.cycles += cycles

	if wasPending {
		c.ime = true
		c.imePending = false
	}

	if c.logger != nil {
		c.logger.LogCPU(fetchPC, opcode, isCB, cbOpcode, c.State())
	}

	return cycles, nil
}

func (c *CPU) pushPC16(m MemoryInterface) {
	c.SP -= 2
	m.Write16(c.SP, c.PC)
}
