package cpu

import "fmt"

// handlerFunc is the shape every instruction semantic function implements.
type handlerFunc func(c *CPU, m MemoryInterface, op1, op2 Operand)

// opcodeEntry is one slot of a dispatch table: a handler plus the operands
// it was bound to at table-build time, plus timing. branchCycles is used
// only by instructions whose cost differs when a condition is taken
// (JR/JP/CALL/RET cc); it is 0 for everything else.
type opcodeEntry struct {
	fn           handlerFunc
	op1, op2     Operand
	cycles       uint8
	branchCycles uint8
}

var primaryTable [256]opcodeEntry
var cbTable [256]opcodeEntry

// reg8Order is the standard LR35902 3-bit register encoding: B,C,D,E,H,L,
// (HL),A. Used throughout the 0x40-0xBF blocks and the whole CB page.
var reg8Order = [8]Operand{
	r8(RegB), r8(RegC), r8(RegD), r8(RegE), r8(RegH), r8(RegL), mem(AddrHL), r8(RegA),
}

var rrOrderSP = [4]Reg16{RegBC, RegDE, RegHL, RegSP}
var rrOrderAF = [4]Reg16{RegBC, RegDE, RegHL, RegAF}
var condOrder = [4]Cond{CondNZ, CondZ, CondNC, CondC}

func isMemOperand(op Operand) bool { return op.kind == KindAddr }

func set(op uint8, fn handlerFunc, op1, op2 Operand, cycles uint8, branchCycles ...uint8) {
	if primaryTable[op].fn != nil {
		panic(fmt.Sprintf("primary opcode 0x%02X assigned twice", op))
	}
	bc := uint8(0)
	if len(branchCycles) > 0 {
		bc = branchCycles[0]
	}
	primaryTable[op] = opcodeEntry{fn, op1, op2, cycles, bc}
}

func init() {
	buildPrimaryTable()
	buildCBTable()
}

func buildPrimaryTable() {
	set(0x00, opNOP, noneOp, noneOp, 4)

	// 16-bit immediate loads: LD rr,nn
	for i, rr := range rrOrderSP {
		set(uint8(0x01+i*0x10), opLD16, r16(rr), imm16Op, 12)
	}

	// indirect A loads/stores
	set(0x02, opLD8, mem(AddrBC), r8(RegA), 8)
	set(0x12, opLD8, mem(AddrDE), r8(RegA), 8)
	set(0x22, opLD8, mem(AddrHLInc), r8(RegA), 8)
	set(0x32, opLD8, mem(AddrHLDec), r8(RegA), 8)
	set(0x0A, opLD8, r8(RegA), mem(AddrBC), 8)
	set(0x1A, opLD8, r8(RegA), mem(AddrDE), 8)
	set(0x2A, opLD8, r8(RegA), mem(AddrHLInc), 8)
	set(0x3A, opLD8, r8(RegA), mem(AddrHLDec), 8)

	// INC rr / DEC rr
	for i, rr := range rrOrderSP {
		set(uint8(0x03+i*0x10), opINC16, r16(rr), noneOp, 8)
		set(uint8(0x0B+i*0x10), opDEC16, r16(rr), noneOp, 8)
	}

	// INC r8 / DEC r8 / LD r8,n8 for the column-0 and column-1 register rows
	incDecRows := []struct {
		base uint8
		reg  Operand
	}{
		{0x00, r8(RegB)}, {0x10, r8(RegD)}, {0x20, r8(RegH)}, {0x30, mem(AddrHL)},
		{0x08, r8(RegC)}, {0x18, r8(RegE)}, {0x28, r8(RegL)}, {0x38, r8(RegA)},
	}
	for _, row := range incDecRows {
		cyc := uint8(4)
		ldCyc := uint8(8)
		if isMemOperand(row.reg) {
			cyc = 12
			ldCyc = 12
		}
		set(row.base+0x04, opINC8, row.reg, noneOp, cyc)
		set(row.base+0x05, opDEC8, row.reg, noneOp, cyc)
		set(row.base+0x06, opLD8, row.reg, imm8Op, ldCyc)
	}

	set(0x07, opRLCA, noneOp, noneOp, 4)
	set(0x0F, opRRCA, noneOp, noneOp, 4)
	set(0x17, opRLA, noneOp, noneOp, 4)
	set(0x1F, opRRA, noneOp, noneOp, 4)
	set(0x27, opDAA, noneOp, noneOp, 4)
	set(0x2F, opCPL, noneOp, noneOp, 4)
	set(0x37, opSCF, noneOp, noneOp, 4)
	set(0x3F, opCCF, noneOp, noneOp, 4)

	set(0x08, opLDa16SP, noneOp, noneOp, 20)

	for i, rr := range rrOrderSP {
		set(uint8(0x09+i*0x10), opADDHLrr, r16(RegHL), r16(rr), 8)
	}

	set(0x10, opSTOP, noneOp, noneOp, 4)

	set(0x18, opJR, cond(CondNone), noneOp, 12)
	for i, cc := range condOrder {
		set(uint8(0x20+i*0x08), opJR, cond(cc), noneOp, 8, 12)
	}

	// 0x40-0x7F: LD r,r' over all 64 combinations; 0x76 is HALT.
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			opc := uint8(0x40 + dst*8 + src)
			if opc == 0x76 {
				set(opc, opHALT, noneOp, noneOp, 4)
				continue
			}
			cyc := uint8(4)
			if isMemOperand(reg8Order[dst]) || isMemOperand(reg8Order[src]) {
				cyc = 8
			}
			set(opc, opLD8, reg8Order[dst], reg8Order[src], cyc)
		}
	}

	// 0x80-0xBF: 8-bit arithmetic family against every register.
	aluFamily := []struct {
		base uint8
		fn   handlerFunc
	}{
		{0x80, opADD}, {0x88, opADC}, {0x90, opSUB}, {0x98, opSBC},
		{0xA0, opAND}, {0xA8, opXOR}, {0xB0, opOR}, {0xB8, opCP},
	}
	for _, fam := range aluFamily {
		for i, src := range reg8Order {
			cyc := uint8(4)
			if isMemOperand(src) {
				cyc = 8
			}
			set(fam.base+uint8(i), fam.fn, noneOp, src, cyc)
		}
	}

	// ALU-immediate forms
	set(0xC6, opADD, noneOp, imm8Op, 8)
	set(0xCE, opADC, noneOp, imm8Op, 8)
	set(0xD6, opSUB, noneOp, imm8Op, 8)
	set(0xDE, opSBC, noneOp, imm8Op, 8)
	set(0xE6, opAND, noneOp, imm8Op, 8)
	set(0xEE, opXOR, noneOp, imm8Op, 8)
	set(0xF6, opOR, noneOp, imm8Op, 8)
	set(0xFE, opCP, noneOp, imm8Op, 8)

	// RET cc / RET / RETI
	for i, cc := range condOrder {
		set(uint8(0xC0+i*0x08), opRET, cond(cc), noneOp, 8, 20)
	}
	set(0xC9, opRET, cond(CondNone), noneOp, 16)
	set(0xD9, opRETI, noneOp, noneOp, 16)

	// PUSH/POP
	for i, rr := range rrOrderAF {
		set(uint8(0xC1+i*0x10), opPOP, r16(rr), noneOp, 12)
		set(uint8(0xC5+i*0x10), opPUSH, r16(rr), noneOp, 16)
	}

	// JP cc,a16 / JP a16 / JP (HL)
	for i, cc := range condOrder {
		set(uint8(0xC2+i*0x08), opJP, cond(cc), noneOp, 12, 16)
	}
	set(0xC3, opJP, cond(CondNone), noneOp, 16)
	set(0xE9, opJPHL, noneOp, noneOp, 4)

	// CALL cc,a16 / CALL a16
	for i, cc := range condOrder {
		set(uint8(0xC4+i*0x08), opCALL, cond(cc), noneOp, 12, 24)
	}
	set(0xCD, opCALL, cond(CondNone), noneOp, 24)

	// RST n
	for i, target := range []uint16{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		set(uint8(0xC7+i*0x08), opRST, val(target), noneOp, 16)
	}

	// high-page and absolute A loads
	set(0xE0, opLD8, mem(AddrHighN), r8(RegA), 12)
	set(0xF0, opLD8, r8(RegA), mem(AddrHighN), 12)
	set(0xE2, opLD8, mem(AddrHighC), r8(RegA), 8)
	set(0xF2, opLD8, r8(RegA), mem(AddrHighC), 8)
	set(0xEA, opLD8, mem(AddrImm16), r8(RegA), 16)
	set(0xFA, opLD8, r8(RegA), mem(AddrImm16), 16)

	set(0xE8, opADDSPe, noneOp, noneOp, 16)
	set(0xF8, opLDHLSPe, noneOp, noneOp, 12)
	set(0xF9, opLDSPHL, noneOp, noneOp, 8)

	set(0xF3, opDI, noneOp, noneOp, 4)
	set(0xFB, opEI, noneOp, noneOp, 4)

	// 0xCB is the prefix escape, dispatched separately by Step; it never
	// occupies a primaryTable slot of its own.

	// Remaining bytes (0xD3,0xDB,0xDD,0xE3,0xE4,0xEB,0xEC,0xED,0xF4,0xFC,0xFD)
	// are not defined on real hardware and are intentionally left nil:
	// decode reaching them reports UnimplementedOpcodeError (§7).
}

func buildCBTable() {
	setCB := func(op uint8, e opcodeEntry) {
		if cbTable[op].fn != nil {
			panic(fmt.Sprintf("CB opcode 0x%02X assigned twice", op))
		}
		cbTable[op] = e
	}

	rotateFamily := []struct {
		base uint8
		fn   handlerFunc
	}{
		{0x00, opRLC}, {0x08, opRRC}, {0x10, opRL}, {0x18, opRR},
		{0x20, opSLA}, {0x28, opSRA}, {0x30, opSWAP}, {0x38, opSRL},
	}
	for _, fam := range rotateFamily {
		for i, reg := range reg8Order {
			cyc := uint8(8)
			if isMemOperand(reg) {
				cyc = 16
			}
			setCB(fam.base+uint8(i), opcodeEntry{fam.fn, reg, noneOp, cyc, 0})
		}
	}

	bitFamily := []struct {
		base uint8
		fn   handlerFunc
	}{
		{0x40, opBIT}, {0x80, opRES}, {0xC0, opSET},
	}
	for _, fam := range bitFamily {
		for bit := uint8(0); bit < 8; bit++ {
			for i, reg := range reg8Order {
				cyc := uint8(8)
				if isMemOperand(reg) {
					cyc = 16
					if fam.fn != nil && fam.base == 0x40 {
						cyc = 12 // BIT b,(HL) is 12 cycles, not 16
					}
				}
				setCB(fam.base+bit*8+uint8(i), opcodeEntry{fam.fn, val(uint16(bit)), reg, cyc, 0})
			}
		}
	}
}
