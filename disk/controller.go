package disk

// Controller owns both floppy drives and the soft-switch dispatch that
// the $C0E0-$C0FF address range reduces to: which drive is selected,
// motor on/off, phase stepping, mode, and the read/write latch. It
// mirrors the original disk-drive switch table, which folds all of
// this into a single nibble decoded from the low 4 bits of the access
// address.
type Controller struct {
	Drive1, Drive2 *Drive
	Selected       *Drive
}

// NewController returns a controller with two empty drives, drive 1
// selected by default.
func NewController() *Controller {
	c := &Controller{Drive1: NewDrive(), Drive2: NewDrive()}
	c.Selected = c.Drive1
	return c
}

func (c *Controller) selectedOrDefault() *Drive {
	if c.Selected == nil {
		return c.Drive1
	}
	return c.Selected
}

// switchDrive handles the nibbles that control drive selection and
// motor power, shared between the read and write switch paths.
func (c *Controller) switchDrive(nib int) {
	switch nib {
	case 0x8:
		c.Drive1.TurnOn(false)
		c.Drive2.TurnOn(false)
	case 0x9:
		c.selectedOrDefault().TurnOn(true)
	case 0xA:
		c.Selected = c.Drive1
	case 0xB:
		c.Selected = c.Drive2
	case 0xE:
		c.selectedOrDefault().SetMode(ModeRead)
	case 0xF:
		c.selectedOrDefault().SetMode(ModeWrite)
	}
}

// SwitchRead handles a read access anywhere in $C0E0-$C0FF. It's
// legal, if unusual, for a "read" here to have a write side effect:
// the low nibble of addr determines phase/drive/mode control, and
// nibble $C (the read/write-latch address) can commit a pending write
// even though the CPU reached it via a read instruction.
func (c *Controller) SwitchRead(addr uint16) uint8 {
	drive := c.selectedOrDefault()
	nib := int(addr & 0xF)

	if nib < 0x8 {
		drive.SwitchPhase(nib)
	} else if nib < 0xC || nib > 0xD {
		c.switchDrive(nib)
	}

	switch nib {
	case 0xC:
		return drive.SwitchRW()
	case 0xD:
		drive.SwitchLatch(0)
	}
	return 0
}

// SwitchWrite handles a write access anywhere in $C0E0-$C0FF. The
// value only matters for nibble $D, which loads the write latch; every
// other nibble behaves exactly as the read path does.
func (c *Controller) SwitchWrite(addr uint16, value uint8) {
	drive := c.selectedOrDefault()
	nib := int(addr & 0xF)

	if nib < 0x8 {
		drive.SwitchPhase(nib)
	} else if nib < 0xC || nib > 0xD {
		c.switchDrive(nib)
	}

	switch nib {
	case 0xC:
		drive.SwitchRW()
	case 0xD:
		drive.SwitchLatch(value)
	}
}
