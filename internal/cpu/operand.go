package cpu

// Reg8 names an 8-bit register.
type Reg8 uint8

const (
	RegA Reg8 = iota
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
)

// Reg16 names a 16-bit register pair.
type Reg16 uint8

const (
	RegAF Reg16 = iota
	RegBC
	RegDE
	RegHL
	RegSP
)

// AddrMode names a memory-address operand source (§4.2 operand model).
type AddrMode uint8

const (
	AddrNone AddrMode = iota
	AddrBC
	AddrDE
	AddrHL
	AddrHLInc // [HL+]
	AddrHLDec // [HL-]
	AddrHighC // [0xFF00+C]
	AddrHighN // [0xFF00+n8]
	AddrImm16 // [nn]
)

// Cond names a branch condition.
type Cond uint8

const (
	CondNone Cond = iota
	CondNZ
	CondZ
	CondNC
	CondC
)

// operandKind tags which field of Operand is meaningful.
type operandKind uint8

const (
	KindNone operandKind = iota
	KindR8
	KindR16
	KindAddr
	KindImm8
	KindSImm8 // signed immediate (JR e8, ADD SP,e8, LD HL,SP+e8)
	KindImm16
	KindCond
	KindValue // baked-in constant (RST targets)
)

// Operand is the tagged operand an instruction handler reads or writes
// through, generalized across 8-bit/16-bit registers, memory-address
// sources, and immediates so that each semantic function is written once
// regardless of which addressing form dispatched into it (§4.2).
type Operand struct {
	kind  operandKind
	reg8  Reg8
	reg16 Reg16
	addr  AddrMode
	cond  Cond
	value uint16
}

func r8(r Reg8) Operand    { return Operand{kind: KindR8, reg8: r} }
func r16(r Reg16) Operand  { return Operand{kind: KindR16, reg16: r} }
func mem(a AddrMode) Operand { return Operand{kind: KindAddr, addr: a} }
func cond(c Cond) Operand  { return Operand{kind: KindCond, cond: c} }
func val(v uint16) Operand { return Operand{kind: KindValue, value: v} }

var imm8Op  = Operand{kind: KindImm8}
var simm8Op = Operand{kind: KindSImm8}
var imm16Op = Operand{kind: KindImm16}
var noneOp  = Operand{kind: KindNone}

// resolveAddr computes the 16-bit address named by an AddrMode operand,
// consuming any trailing immediate from the instruction stream and
// applying HL+/HL- post-increment/decrement as a side effect.
func (c *CPU) resolveAddr(mem MemoryInterface, a AddrMode) uint16 {
	switch a {
	case AddrBC:
		return c.BC()
	case AddrDE:
		return c.DE()
	case AddrHL:
		return c.HL()
	case AddrHLInc:
		v := c.HL()
		c.SetHL(v + 1)
		return v
	case AddrHLDec:
		v := c.HL()
		c.SetHL(v - 1)
		return v
	case AddrHighC:
		return 0xFF00 + uint16(c.C)
	case AddrHighN:
		n := mem.Read8(c.PC)
		c.PC++
		return 0xFF00 + uint16(n)
	case AddrImm16:
		a16 := mem.Read16(c.PC)
		c.PC += 2
		return a16
	}
	return 0
}

// getU8 reads an operand's 8-bit value, advancing PC over any immediate it
// consumes.
func (c *CPU) getU8(m MemoryInterface, op Operand) uint8 {
	switch op.kind {
	case KindR8:
		return c.reg8(op.reg8)
	case KindAddr:
		return m.Read8(c.resolveAddr(m, op.addr))
	case KindImm8:
		v := m.Read8(c.PC)
		c.PC++
		return v
	}
	return 0
}

// setU8 writes an operand's 8-bit value.
func (c *CPU) setU8(m MemoryInterface, op Operand, v uint8) {
	switch op.kind {
	case KindR8:
		c.setReg8(op.reg8, v)
	case KindAddr:
		m.Write8(c.resolveAddr(m, op.addr), v)
	}
}

// getU16 reads an operand's 16-bit value.
func (c *CPU) getU16(m MemoryInterface, op Operand) uint16 {
	switch op.kind {
	case KindR16:
		return c.reg16(op.reg16)
	case KindImm16:
		v := m.Read16(c.PC)
		c.PC += 2
		return v
	case KindValue:
		return op.value
	}
	return 0
}

// setU16 writes an operand's 16-bit value.
func (c *CPU) setU16(m MemoryInterface, op Operand, v uint16) {
	switch op.kind {
	case KindR16:
		c.setReg16(op.reg16, v)
	}
}

// readSignedImm8 consumes a signed 8-bit immediate (JR, ADD SP,e8).
func (c *CPU) readSignedImm8(m MemoryInterface) int8 {
	v := m.Read8(c.PC)
	c.PC++
	return int8(v)
}

// condTrue evaluates a branch condition against the current flags.
func (c *CPU) condTrue(cc Cond) bool {
	switch cc {
	case CondNone:
		return true
	case CondNZ:
		return c.F&FlagZ == 0
	case CondZ:
		return c.F&FlagZ != 0
	case CondNC:
		return c.F&FlagC == 0
	case CondC:
		return c.F&FlagC != 0
	}
	return false
}

func (c *CPU) reg8(r Reg8) uint8 {
	switch r {
	case RegA:
		return c.A
	case RegF:
		return c.F
	case RegB:
		return c.B
	case RegC:
		return c.C
	case RegD:
		return c.D
	case RegE:
		return c.E
	case RegH:
		return c.H
	case RegL:
		return c.L
	}
	return 0
}

func (c *CPU) setReg8(r Reg8, v uint8) {
	switch r {
	case RegA:
		c.A = v
	case RegF:
		c.F = v & 0xF0
	case RegB:
		c.B = v
	case RegC:
		c.C = v
	case RegD:
		c.D = v
	case RegE:
		c.E = v
	case RegH:
		c.H = v
	case RegL:
		c.L = v
	}
}

func (c *CPU) reg16(r Reg16) uint16 {
	switch r {
	case RegAF:
		return c.AF()
	case RegBC:
		return c.BC()
	case RegDE:
		return c.DE()
	case RegHL:
		return c.HL()
	case RegSP:
		return c.SP
	}
	return 0
}

func (c *CPU) setReg16(r Reg16, v uint16) {
	switch r {
	case RegAF:
		c.SetAF(v)
	case RegBC:
		c.SetBC(v)
	case RegDE:
		c.SetDE(v)
	case RegHL:
		c.SetHL(v)
	case RegSP:
		c.SP = v
	}
}
