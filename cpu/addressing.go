package cpu

// AddrFunc resolves one instruction's operand: it consumes whatever
// operand bytes the mode needs directly from PC, sets EffAddr and
// EffAddrValid (false for modes with no real address — immediate,
// implied, accumulator, relative — since EffAddr 0 is itself a
// legitimate address), and returns the value the instruction handler
// should act on plus whether an indexed/indirect-Y access crossed a
// page boundary.
type AddrFunc func(c *CPU) (value uint8, pageCrossed bool)

func addrImplied(c *CPU) (uint8, bool) {
	c.EffAddr = 0
	c.EffAddrValid = false
	return 0, false
}

func addrAccumulator(c *CPU) (uint8, bool) {
	c.EffAddr = 0
	c.EffAddrValid = false
	return c.A, false
}

func addrImmediate(c *CPU) (uint8, bool) {
	c.EffAddr = 0
	c.EffAddrValid = false
	v := c.read(c.PC)
	c.PC++
	return v, false
}

func addrZeroPage(c *CPU) (uint8, bool) {
	addr := uint16(c.read(c.PC))
	c.PC++
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), false
}

func addrZeroPageX(c *CPU) (uint8, bool) {
	base := c.read(c.PC)
	c.PC++
	addr := uint16(base + c.X)
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), false
}

func addrZeroPageY(c *CPU) (uint8, bool) {
	base := c.read(c.PC)
	c.PC++
	addr := uint16(base + c.Y)
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), false
}

func (c *CPU) fetchAbsolute() uint16 {
	lo := c.read(c.PC)
	c.PC++
	hi := c.read(c.PC)
	c.PC++
	return uint16(lo) | uint16(hi)<<8
}

func addrAbsolute(c *CPU) (uint8, bool) {
	addr := c.fetchAbsolute()
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), false
}

func addrAbsoluteX(c *CPU) (uint8, bool) {
	base := c.fetchAbsolute()
	addr := base + uint16(c.X)
	crossed := (base&0xFF)+uint16(c.X) > 0xFF
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), crossed
}

func addrAbsoluteY(c *CPU) (uint8, bool) {
	base := c.fetchAbsolute()
	addr := base + uint16(c.Y)
	crossed := (base&0xFF)+uint16(c.Y) > 0xFF
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), crossed
}

// addrIndirect resolves JMP ($addr). It reproduces the classic 6502
// page-wrap quirk: if the pointer's low byte is $FF, the high byte of
// the target is fetched from the start of the same page, not the next
// one.
func addrIndirect(c *CPU) (uint8, bool) {
	ptr := c.fetchAbsolute()
	lo := c.read(ptr)
	hi := c.read((ptr & 0xFF00) | ((ptr + 1) & 0x00FF))
	addr := uint16(lo) | uint16(hi)<<8
	c.EffAddr = addr
	c.EffAddrValid = true
	return 0, false
}

// addrIndexedIndirect resolves (zp,X): the operand plus X (wrapping in
// zero page) points at a two-byte zero-page pointer to the operand.
func addrIndexedIndirect(c *CPU) (uint8, bool) {
	zp := c.read(c.PC) + c.X
	c.PC++
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	addr := uint16(lo) | uint16(hi)<<8
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), false
}

// addrIndirectIndexed resolves (zp),Y: the operand is a zero-page
// pointer whose dereferenced value is indexed by Y.
func addrIndirectIndexed(c *CPU) (uint8, bool) {
	zp := c.read(c.PC)
	c.PC++
	lo := c.read(uint16(zp))
	hi := c.read(uint16(zp + 1))
	base := uint16(lo) | uint16(hi)<<8
	addr := base + uint16(c.Y)
	crossed := (base&0xFF)+uint16(c.Y) > 0xFF
	c.EffAddr = addr
	c.EffAddrValid = true
	return c.read(addr), crossed
}

// addrRelative resolves the signed branch displacement. By the time it
// reads the operand byte, PC has already advanced past the opcode; it
// then advances past the operand too, so the value it adds the signed
// offset to is PC as it will read the *next* instruction — the "PC + 2"
// spec.md describes, measured from the branch opcode itself. EffAddrValid
// is left false: nothing downstream treats a branch target as a
// storable/BIT-able address.
func addrRelative(c *CPU) (uint8, bool) {
	offset := c.read(c.PC)
	c.PC++
	eff := c.PC + uint16(int16(int8(offset)))
	c.EffAddr = eff
	c.EffAddrValid = false
	return 0, false
}
