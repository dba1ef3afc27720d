package gcr

// Encode4and4 encodes one metadata byte (volume, track, sector,
// checksum) into the two on-disk bytes the format calls 4-and-4:
// simpler than 6-and-2 but twice as wide, used only for sector address
// fields. Every output bit not carrying data is forced high, so the
// two bytes never collide with a sync or marker byte.
func Encode4and4(val byte) (byte, byte) {
	return ((val >> 1) & 0x55) | 0xAA, (val & 0x55) | 0xAA
}

// Decode4and4 reverses Encode4and4.
func Decode4and4(b1, b2 byte) byte {
	return ((b1 << 1) | 0x01) & b2
}

// volumeMarker is the fixed volume byte written into every sector
// address field; this codec doesn't model multi-volume disks, so it's
// a constant rather than a parameter.
const volumeMarker = 0xFE

const (
	headerPrologue0, headerPrologue1, headerPrologue2 = 0xD5, 0xAA, 0x96
	headerEpilogue0, headerEpilogue1, headerEpilogue2 = 0xDE, 0xAA, 0xEB

	// sectorHeaderSize is the address field's fixed width: a 3-byte
	// prologue, four 4-and-4 pairs (volume, track, sector, checksum),
	// and a 3-byte epilogue.
	sectorHeaderSize = 3 + 4*2 + 3
)

// EncodeSectorHeader writes a 14-byte address field naming track and
// sector, with a checksum of volume^track^sector so a reader can catch
// a misread header before trusting the sector number in it.
func EncodeSectorHeader(dst []byte, track, sector int) {
	dst[0], dst[1], dst[2] = headerPrologue0, headerPrologue1, headerPrologue2

	fields := [4]byte{volumeMarker, byte(track), byte(sector), volumeMarker ^ byte(track) ^ byte(sector)}
	off := 3
	for _, v := range fields {
		dst[off], dst[off+1] = Encode4and4(v)
		off += 2
	}

	dst[off], dst[off+1], dst[off+2] = headerEpilogue0, headerEpilogue1, headerEpilogue2
}

// DecodeSectorHeader validates an address field's markers and checksum
// and returns the track and sector it names.
func DecodeSectorHeader(src []byte) (track, sector int, ok bool) {
	if src[0] != headerPrologue0 || src[1] != headerPrologue1 || src[2] != headerPrologue2 {
		return 0, 0, false
	}
	if src[11] != headerEpilogue0 || src[12] != headerEpilogue1 || src[13] != headerEpilogue2 {
		return 0, 0, false
	}

	volume := Decode4and4(src[3], src[4])
	t := Decode4and4(src[5], src[6])
	s := Decode4and4(src[7], src[8])
	checksum := Decode4and4(src[9], src[10])
	if volume != volumeMarker || checksum != volume^t^s {
		return 0, 0, false
	}
	return int(t), int(s), true
}
