package cpu

// Handler performs one instruction's semantics given the operand value
// the addressing-mode resolver produced (and, via c.EffAddr and
// c.EffAddrValid, the address it came from, if the mode has one).
type Handler func(c *CPU, value uint8)

func opLDA(c *CPU, v uint8) { c.A = v; c.updateZN(c.A) }
func opLDX(c *CPU, v uint8) { c.X = v; c.updateZN(c.X) }
func opLDY(c *CPU, v uint8) { c.Y = v; c.updateZN(c.Y) }
func opSTA(c *CPU, _ uint8) { c.write(c.EffAddr, c.A) }
func opSTX(c *CPU, _ uint8) { c.write(c.EffAddr, c.X) }
func opSTY(c *CPU, _ uint8) { c.write(c.EffAddr, c.Y) }
func opSTZ(c *CPU, _ uint8) { c.write(c.EffAddr, 0) }

func opTAX(c *CPU, _ uint8) { c.X = c.A; c.updateZN(c.X) }
func opTAY(c *CPU, _ uint8) { c.Y = c.A; c.updateZN(c.Y) }
func opTSX(c *CPU, _ uint8) { c.X = c.S; c.updateZN(c.X) }
func opTXA(c *CPU, _ uint8) { c.A = c.X; c.updateZN(c.A) }
func opTXS(c *CPU, _ uint8) { c.S = c.X }
func opTYA(c *CPU, _ uint8) { c.A = c.Y; c.updateZN(c.A) }

func opPHA(c *CPU, _ uint8) { c.push(c.A) }
func opPHP(c *CPU, _ uint8) { c.push(c.P | FlagB | Flag5) }
func opPHX(c *CPU, _ uint8) { c.push(c.X) }
func opPHY(c *CPU, _ uint8) { c.push(c.Y) }
func opPLA(c *CPU, _ uint8) { c.A = c.pop(); c.updateZN(c.A) }
func opPLP(c *CPU, _ uint8) { c.P = (c.pop() &^ FlagB) | Flag5 }
func opPLX(c *CPU, _ uint8) { c.X = c.pop(); c.updateZN(c.X) }
func opPLY(c *CPU, _ uint8) { c.Y = c.pop(); c.updateZN(c.Y) }

func (c *CPU) carryIn() int {
	if c.flag(FlagC) {
		return 1
	}
	return 0
}

func opADC(c *CPU, v uint8) {
	if c.flag(FlagD) {
		c.adcDecimal(v)
	} else {
		c.adcBinary(v)
	}
}

func (c *CPU) adcBinary(v uint8) {
	sum := int(c.A) + int(v) + c.carryIn()
	result := uint8(sum)
	overflow := (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, overflow)
	c.A = result
	c.updateZN(result)
}

// adcDecimal implements BCD addition. Input nibbles greater than 9 are
// undefined on real hardware; spec.md freezes that as "skip the
// instruction, leave A unchanged".
func (c *CPU) adcDecimal(v uint8) {
	aLo, aHi := c.A&0x0F, c.A>>4
	vLo, vHi := v&0x0F, v>>4
	if aLo > 9 || aHi > 9 || vLo > 9 || vHi > 9 {
		return
	}

	carryIn := c.carryIn()
	binResult := uint8(int(c.A) + int(v) + carryIn)
	overflow := (c.A^v)&0x80 == 0 && (c.A^binResult)&0x80 != 0

	lo := int(aLo) + int(vLo) + carryIn
	hiCarry := 0
	if lo > 9 {
		lo -= 10
		hiCarry = 1
	}
	hi := int(aHi) + int(vHi) + hiCarry
	carryOut := hi > 9
	if carryOut {
		hi -= 10
	}

	result := uint8(hi<<4) | uint8(lo)
	c.setFlag(FlagC, carryOut)
	c.setFlag(FlagV, overflow)
	c.A = result
	c.updateZN(result)
}

func opSBC(c *CPU, v uint8) {
	if c.flag(FlagD) {
		c.sbcDecimal(v)
	} else {
		c.sbcBinary(v)
	}
}

func (c *CPU) sbcBinary(v uint8) {
	borrow := 1 - c.carryIn()
	diff := int(c.A) - int(v) - borrow
	result := uint8(diff)
	overflow := (c.A^v)&0x80 != 0 && (c.A^result)&0x80 != 0
	c.setFlag(FlagC, diff >= 0)
	c.setFlag(FlagV, overflow)
	c.A = result
	c.updateZN(result)
}

func (c *CPU) sbcDecimal(v uint8) {
	aLo, aHi := c.A&0x0F, c.A>>4
	vLo, vHi := v&0x0F, v>>4
	if aLo > 9 || aHi > 9 || vLo > 9 || vHi > 9 {
		return
	}

	borrow := 1 - c.carryIn()
	binDiff := int(c.A) - int(v) - borrow
	binResult := uint8(binDiff)
	overflow := (c.A^v)&0x80 != 0 && (c.A^binResult)&0x80 != 0

	lo := int(aLo) - int(vLo) - borrow
	hiBorrow := 0
	if lo < 0 {
		lo += 10
		hiBorrow = 1
	}
	hi := int(aHi) - int(vHi) - hiBorrow
	noBorrow := hi >= 0
	if hi < 0 {
		hi += 10
	}

	result := uint8(hi<<4) | uint8(lo)
	c.setFlag(FlagC, noBorrow)
	c.setFlag(FlagV, overflow)
	c.A = result
	c.updateZN(result)
}

func (c *CPU) compare(reg, v uint8) {
	c.setFlag(FlagC, reg >= v)
	c.updateZN(reg - v)
}

func opCMP(c *CPU, v uint8) { c.compare(c.A, v) }
func opCPX(c *CPU, v uint8) { c.compare(c.X, v) }
func opCPY(c *CPU, v uint8) { c.compare(c.Y, v) }

// storeResult writes a computed byte back to wherever the operand came
// from: the accumulator if the resolver reported no real address
// (addrAccumulator), or memory at EffAddr otherwise. EffAddr alone
// can't tell the two apart — $0000 is a legitimate zero-page/absolute
// target — so this relies on EffAddrValid instead.
func (c *CPU) storeResult(v uint8) {
	if !c.EffAddrValid {
		c.A = v
	} else {
		c.write(c.EffAddr, v)
	}
}

func opDEC(c *CPU, v uint8) { r := v - 1; c.storeResult(r); c.updateZN(r) }
func opINC(c *CPU, v uint8) { r := v + 1; c.storeResult(r); c.updateZN(r) }
func opDEX(c *CPU, _ uint8) { c.X--; c.updateZN(c.X) }
func opDEY(c *CPU, _ uint8) { c.Y--; c.updateZN(c.Y) }
func opINX(c *CPU, _ uint8) { c.X++; c.updateZN(c.X) }
func opINY(c *CPU, _ uint8) { c.Y++; c.updateZN(c.Y) }

func opAND(c *CPU, v uint8) { c.A &= v; c.updateZN(c.A) }
func opORA(c *CPU, v uint8) { c.A |= v; c.updateZN(c.A) }
func opEOR(c *CPU, v uint8) { c.A ^= v; c.updateZN(c.A) }

func opASL(c *CPU, v uint8) {
	carryOut := v&0x80 != 0
	r := v << 1
	c.storeResult(r)
	c.setFlag(FlagC, carryOut)
	c.updateZN(r)
}

func opLSR(c *CPU, v uint8) {
	carryOut := v&0x01 != 0
	r := v >> 1
	c.storeResult(r)
	c.setFlag(FlagC, carryOut)
	c.updateZN(r)
}

func opROL(c *CPU, v uint8) {
	carryOut := v&0x80 != 0
	r := (v << 1) | uint8(c.carryIn())
	c.storeResult(r)
	c.setFlag(FlagC, carryOut)
	c.updateZN(r)
}

func opROR(c *CPU, v uint8) {
	carryOut := v&0x01 != 0
	var carryBit uint8
	if c.flag(FlagC) {
		carryBit = 0x80
	}
	r := (v >> 1) | carryBit
	c.storeResult(r)
	c.setFlag(FlagC, carryOut)
	c.updateZN(r)
}

// opBIT handles both the memory forms and the 65C02 immediate form.
// Immediate mode resolves with EffAddrValid false — the only BIT
// variant that does, since the memory forms always carry a real
// zero-page/absolute address, even $0000 — so only Z is touched there,
// per spec.md §4.3.
func opBIT(c *CPU, v uint8) {
	c.setFlag(FlagZ, c.A&v == 0)
	if c.EffAddrValid {
		c.setFlag(FlagN, v&0x80 != 0)
		c.setFlag(FlagV, v&0x40 != 0)
	}
}

func opTRB(c *CPU, v uint8) {
	c.setFlag(FlagZ, c.A&v == 0)
	c.write(c.EffAddr, v&^c.A)
}

func opTSB(c *CPU, v uint8) {
	c.setFlag(FlagZ, c.A&v == 0)
	c.write(c.EffAddr, v|c.A)
}

func (c *CPU) branch(taken bool) {
	if taken {
		c.PC = c.EffAddr
	}
}

func opBCC(c *CPU, _ uint8) { c.branch(!c.flag(FlagC)) }
func opBCS(c *CPU, _ uint8) { c.branch(c.flag(FlagC)) }
func opBEQ(c *CPU, _ uint8) { c.branch(c.flag(FlagZ)) }
func opBNE(c *CPU, _ uint8) { c.branch(!c.flag(FlagZ)) }
func opBMI(c *CPU, _ uint8) { c.branch(c.flag(FlagN)) }
func opBPL(c *CPU, _ uint8) { c.branch(!c.flag(FlagN)) }
func opBVC(c *CPU, _ uint8) { c.branch(!c.flag(FlagV)) }
func opBVS(c *CPU, _ uint8) { c.branch(c.flag(FlagV)) }
func opBRA(c *CPU, _ uint8) { c.PC = c.EffAddr }

func opJMP(c *CPU, _ uint8) { c.PC = c.EffAddr }

// opJSR pushes the address of the JSR instruction's last byte, not the
// address of the next instruction — RTS makes up the difference by
// incrementing after it pops.
func opJSR(c *CPU, _ uint8) {
	returnAddr := c.PC - 1
	c.push16(returnAddr)
	c.PC = c.EffAddr
}

func opRTS(c *CPU, _ uint8) {
	c.PC = c.pop16() + 1
}

// opBRK implements the vector-jumping behavior spec.md's own
// instruction bullet specifies: push PC+2 (BRK's operand byte is a
// padding signature byte the handler skips over), push P with B set,
// raise the interrupt-disable flag, then jump through the IRQ/BRK
// vector.
func opBRK(c *CPU, _ uint8) {
	c.PC++
	c.push16(c.PC)
	c.push(c.P | FlagB | Flag5)
	c.setFlag(FlagI, true)
	c.PC = c.read16(VectorIRQ)
}

func opRTI(c *CPU, _ uint8) {
	c.P = (c.pop() &^ FlagB) | Flag5
	c.PC = c.pop16()
}

func opCLC(c *CPU, _ uint8) { c.setFlag(FlagC, false) }
func opCLD(c *CPU, _ uint8) { c.setFlag(FlagD, false) }
func opCLI(c *CPU, _ uint8) { c.setFlag(FlagI, false) }
func opCLV(c *CPU, _ uint8) { c.setFlag(FlagV, false) }
func opSEC(c *CPU, _ uint8) { c.setFlag(FlagC, true) }
func opSED(c *CPU, _ uint8) { c.setFlag(FlagD, true) }
func opSEI(c *CPU, _ uint8) { c.setFlag(FlagI, true) }

func opNOP(c *CPU, _ uint8) {}
