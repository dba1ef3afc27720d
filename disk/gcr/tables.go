// Package gcr implements the 6-and-2 group-coded-recording sector and
// track codec, and the 4-and-4 metadata codec used for sector headers.
// It is ported line-for-line from the reference implementation's
// apple2.enc.c/apple2.dec.c, not re-derived: the packing order inside
// the 86-byte prefix, the 8-bit-wraparound quirk in the third
// recombination term, and the translate tables are exactly theirs.
package gcr

// gcr62 is the 64-symbol run-length-limited alphabet a 6-and-2 nibble
// is drawn from: every value here has no more than two consecutive
// zero bits, so the drive's PLL never loses sync reading it back.
var gcr62 = [64]byte{
	0x96, 0x97, 0x9a, 0x9b, 0x9d, 0x9e, 0x9f, 0xa6, 0xa7, 0xab, 0xac, 0xad, 0xae, 0xaf, 0xb2, 0xb3,
	0xb4, 0xb5, 0xb6, 0xb7, 0xb9, 0xba, 0xbb, 0xbc, 0xbd, 0xbe, 0xbf, 0xcb, 0xcd, 0xce, 0xcf, 0xd3,
	0xd6, 0xd7, 0xd9, 0xda, 0xdb, 0xdc, 0xdd, 0xde, 0xdf, 0xe5, 0xe6, 0xe7, 0xe9, 0xea, 0xeb, 0xec,
	0xed, 0xee, 0xef, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf9, 0xfa, 0xfb, 0xfc, 0xfd, 0xfe, 0xff,
}

// conv6bit is gcr62's inverse, indexed by the on-disk byte's low 7
// bits: conv6bit[b] is the shifted 6-bit value (i<<2) that encodes to
// b, or 0xFF if b is not a valid disk byte at all. Built by inversion
// at init rather than transcribed a second time by hand.
var conv6bit [128]byte

func init() {
	for i := range conv6bit {
		conv6bit[i] = 0xFF
	}
	for i, b := range gcr62 {
		conv6bit[b&0x7F] = byte(i << 2)
	}
}

// Order selects the logical-to-physical sector interleave applied when
// laying out a disk image's sectors on a track.
type Order int

const (
	DOSOrder Order = iota
	ProDOSOrder
)

var dosInterleave = [16]byte{0x0, 0xD, 0xB, 0x9, 0x7, 0x5, 0x3, 0x1, 0xE, 0xC, 0xA, 0x8, 0x6, 0x4, 0x2, 0xF}
var prodosInterleave = [16]byte{0x0, 0x2, 0x4, 0x6, 0x8, 0xA, 0xC, 0xE, 0x1, 0x3, 0x5, 0x7, 0x9, 0xB, 0xD, 0xF}

// interleave returns the physical sector holding logical sector s
// under the given order, a static 16-entry permutation copied from
// the reference tables rather than re-derived, per spec.md §9.
func interleave(order Order, s int) int {
	if order == ProDOSOrder {
		return int(prodosInterleave[s])
	}
	return int(dosInterleave[s])
}
