// Package disk implements the floppy drive's mechanical state: head
// positioning via the four-phase stepper, the read/write latch
// protocol, and the two-drive controller the $C0E0-$C0FF soft switches
// address. The GCR codec that turns raw sector bytes into the stream a
// drive head actually reads lives in the sibling gcr package.
package disk

import (
	"bytes"
	"fmt"

	"github.com/kestrel-systems/retrocore/disk/gcr"
	"github.com/kestrel-systems/retrocore/memory"
)

// Standard and nibble-preformatted image sizes a drive will accept.
const (
	StandardImageSize = 143360
	NibbleImageSize   = gcr.TrackSize * tracksPerDisk

	tracksPerDisk  = 35
	maxTrackPos    = tracksPerDisk*2 - 1 // 69: 70 half-track positions, 0..69
	standardStride = 4096
)

// Mode is the drive head's current read/write posture, set by the
// $C0nE/$C0nF soft switches.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// BadFileError reports an image that can't be inserted: the wrong
// size for either a standard DOS-order image or a nibble-preformatted
// one.
type BadFileError struct {
	Size int
}

func (e *BadFileError) Error() string {
	return fmt.Sprintf("disk: unexpected image size %d (want %d or %d)", e.Size, StandardImageSize, NibbleImageSize)
}

// Drive holds one floppy drive's mechanical and electrical state: head
// position in half-tracks and byte offset, the stepper's phase
// latches, and the read/write latch.
type Drive struct {
	Data   *memory.Segment
	Nibble bool

	TrackPos  int
	SectorPos int

	PhaseState uint8
	LastPhase  uint8

	Mode         Mode
	Online       bool
	WriteProtect bool
	Latch        uint8

	Locked bool
}

// NewDrive returns an empty, offline, write-protected drive with no
// disk inserted.
func NewDrive() *Drive {
	return &Drive{WriteProtect: true}
}

// Insert loads image data into the drive, replacing whatever was
// there. The image must be exactly the size of a standard 140K
// DOS-order image or a fully nibble-preformatted one; anything else is
// refused and the drive is left empty.
func (d *Drive) Insert(image []byte) error {
	size := len(image)
	if size != StandardImageSize && size != NibbleImageSize {
		d.Eject()
		return &BadFileError{Size: size}
	}

	seg := memory.NewSegment(size)
	if err := seg.ReadStream(bytes.NewReader(image), 0, size); err != nil {
		return err
	}

	d.Data = seg
	d.Nibble = size == NibbleImageSize
	d.TrackPos = 0
	d.SectorPos = 0
	return nil
}

// Eject removes whatever disk is in the drive and resets the head.
func (d *Drive) Eject() {
	d.Data = nil
	d.TrackPos = 0
	d.SectorPos = 0
}

// stride is the byte length of one full track's data at the drive's
// current image format: spec.md's formulas are written in terms of a
// 4096-byte track, which only holds for a raw DOS-order image. A
// nibble-preformatted image's tracks are gcr.TrackSize bytes, so the
// same head-position bookkeeping is generalized to use whichever
// stride the inserted image actually has, rather than hardcoding 4096.
func (d *Drive) stride() int {
	if d.Nibble {
		return gcr.TrackSize
	}
	return standardStride
}

// Position maps the drive's half-track and byte-offset head position
// to a byte offset into the inserted image. Half-track positions
// reuse the same full track's data, simulating the absence of
// recorded data between adjacent tracks.
func (d *Drive) Position() int {
	if d.Data == nil {
		return 0
	}
	return (d.TrackPos/2)*d.stride() + d.SectorPos
}

// ReadByte returns the byte at the current head position and advances
// the head by one byte.
func (d *Drive) ReadByte() uint8 {
	if d.Data == nil {
		return 0
	}
	v := d.Data.GetRaw(d.Position())
	d.Shift(1)
	return v
}

// WriteByte commits the drive's latch to the current head position and
// advances the head by one byte.
func (d *Drive) WriteByte() {
	if d.Data == nil {
		return
	}
	d.Data.SetRaw(d.Position(), d.Latch)
	d.Shift(1)
}

// Step moves the head by the given number of half-tracks, clamped to
// [0, 69], the 70 half-track positions of a 35-track disk.
func (d *Drive) Step(steps int) {
	d.TrackPos += steps
	if d.TrackPos > maxTrackPos {
		d.TrackPos = maxTrackPos
	} else if d.TrackPos < 0 {
		d.TrackPos = 0
	}
}

// Shift moves the byte-offset head position by pos bytes. A Locked
// drive (head already mid-operation) ignores shifts entirely. Wrapping
// past the end of a track rolls sector_pos over and steps the track
// position forward by a full track (two half-tracks), simulating the
// platter having rotated past the index point.
func (d *Drive) Shift(pos int) {
	if d.Locked {
		return
	}

	d.SectorPos += pos
	stride := d.stride()
	for d.SectorPos > stride-1 {
		d.SectorPos -= stride
		d.Step(2)
	}
}

// SwitchPhase updates one stepper phase bit per the drive-address
// nibble a $C0n0-$C0n7 access carries, then lets Phaser decide whether
// this produced head motion.
func (d *Drive) SwitchPhase(nib int) {
	switch nib {
	case 0x0:
		d.PhaseState &^= 0x1
	case 0x1:
		d.PhaseState |= 0x1
	case 0x2:
		d.PhaseState &^= 0x2
	case 0x3:
		d.PhaseState |= 0x2
	case 0x4:
		d.PhaseState &^= 0x4
	case 0x5:
		d.PhaseState |= 0x4
	case 0x6:
		d.PhaseState &^= 0x8
	case 0x7:
		d.PhaseState |= 0x8
	}
	d.phaser()
}

// phaser decides, from the stepper's current and previous phase
// state, whether a half-track step occurred and in which direction.
// Only adjacent phases produce motion; the 0x1/0x8 pair is treated as
// adjacent too (the stepper wraps around), via a pair of pseudo-values
// that exist only to make the adjacency arithmetic below come out
// right for that wraparound case.
func (d *Drive) phaser() {
	phase := d.PhaseState
	last := d.LastPhase

	if phase == 0x1 && last == 0x8 {
		phase = 0x10
	} else if phase == 0x8 && last == 0x1 {
		phase = 0x0
	}

	if phase != last<<1 && phase != last>>1 {
		return
	}

	if phase > last {
		d.Step(1)
	} else if phase < last {
		d.Step(-1)
	}

	d.LastPhase = d.PhaseState
}

// SetMode switches the drive between read and write.
func (d *Drive) SetMode(m Mode) {
	d.Mode = m
}

// TurnOn sets the drive motor's online state.
func (d *Drive) TurnOn(online bool) {
	d.Online = online
}

// SetWriteProtect sets or clears the disk's write-protect tab.
func (d *Drive) SetWriteProtect(protect bool) {
	d.WriteProtect = protect
}

// SwitchLatch sets the latch value that a subsequent write commits to
// disk. It only takes effect in write mode; in read mode the $C0nD
// access always clears the latch instead.
func (d *Drive) SwitchLatch(value uint8) {
	if d.Mode == ModeWrite {
		d.Latch = value
	} else {
		d.Latch = 0
	}
}

// SwitchRW implements the $C0nC read/write-latch access. A drive in
// read mode, or one that's write-protected regardless of mode, always
// performs a read; only an unprotected drive in write mode commits its
// latch.
func (d *Drive) SwitchRW() uint8 {
	if d.Mode == ModeRead || d.WriteProtect {
		return d.ReadByte()
	}
	d.WriteByte()
	return 0
}
