package gcr

import "fmt"

const (
	dataPrologue0, dataPrologue1, dataPrologue2 = 0xD5, 0xAA, 0xAD
	dataEpilogue0, dataEpilogue1, dataEpilogue2 = 0xDE, 0xAA, 0xEB

	dataSyncLeading  = 6
	dataSyncTrailing = 27

	// dataUnitSize is one sector's data field: a 3-byte prologue, six
	// self-sync bytes, the 343-byte translated payload, and a 3-byte
	// epilogue.
	dataUnitSize = 3 + dataSyncLeading + sectorDataFieldSize + 3 // 0x163

	// headerSyncLeading separates one sector's trailing self-sync gap
	// from the next sector's address field.
	headerSyncLeading = 5

	// headerUnitSize is one sector's address field together with the
	// sync gap preceding it.
	headerUnitSize = headerSyncLeading + sectorHeaderSize // 19 (0x13)

	// sectorUnitSize is one sector's total on-track footprint: address
	// field, data field, and the trailing self-sync gap before the next
	// sector's header.
	sectorUnitSize = headerUnitSize + dataUnitSize + dataSyncTrailing // 401

	SectorsPerTrack = 16
	SectorPayload   = sectorPayloadSize

	// trackLeadingSync is the self-sync gap at the very start of a
	// track, sized so that a full track comes out to exactly 0x1A00
	// bytes: 0x1A00 - 16*401 = 240.
	trackLeadingSync = 240

	// TrackSize is the fixed encoded length of one track.
	TrackSize = trackLeadingSync + SectorsPerTrack*sectorUnitSize
)

// EncodeTrack lays out one physical track of sixteen sectors. sectors
// must be indexed by logical sector number (0-15), each holding 256
// bytes of payload. order determines which logical sector is written
// at each physical position, so that sequentially-numbered logical
// sectors land at rotationally-spaced physical slots instead of
// adjacent ones.
func EncodeTrack(dst []byte, sectors [SectorsPerTrack][]byte, track int, order Order) {
	off := 0
	for i := 0; i < trackLeadingSync; i++ {
		dst[off] = 0xFF
		off++
	}

	for slot := 0; slot < SectorsPerTrack; slot++ {
		logical := 0
		for s := 0; s < SectorsPerTrack; s++ {
			if interleave(order, s) == slot {
				logical = s
				break
			}
		}

		for i := 0; i < headerSyncLeading; i++ {
			dst[off] = 0xFF
			off++
		}
		EncodeSectorHeader(dst[off:off+sectorHeaderSize], track, logical)
		off += sectorHeaderSize

		dst[off], dst[off+1], dst[off+2] = dataPrologue0, dataPrologue1, dataPrologue2
		off += 3
		for i := 0; i < dataSyncLeading; i++ {
			dst[off] = 0xFF
			off++
		}

		data := EncodeSectorData(sectors[logical])
		copy(dst[off:], data)
		off += len(data)

		dst[off], dst[off+1], dst[off+2] = dataEpilogue0, dataEpilogue1, dataEpilogue2
		off += 3

		for i := 0; i < dataSyncTrailing; i++ {
			dst[off] = 0xFF
			off++
		}
	}
}

// DecodeTrack reverses EncodeTrack. It doesn't need to know the
// interleave order that produced src: each sector's physical position
// carries its own logical sector number in its address field, which is
// how a real drive finds sectors regardless of layout skew. Sectors
// are returned indexed by logical sector number.
func DecodeTrack(src []byte) (sectors [SectorsPerTrack][]byte, err error) {
	off := trackLeadingSync
	for slot := 0; slot < SectorsPerTrack; slot++ {
		off += headerSyncLeading
		if off+sectorHeaderSize > len(src) {
			return sectors, fmt.Errorf("gcr: track truncated before sector slot %d header", slot)
		}
		_, sector, ok := DecodeSectorHeader(src[off : off+sectorHeaderSize])
		if !ok {
			return sectors, fmt.Errorf("gcr: invalid address field at track slot %d", slot)
		}
		off += sectorHeaderSize

		if sector < 0 || sector >= SectorsPerTrack {
			return sectors, fmt.Errorf("gcr: sector number %d out of range", sector)
		}

		dataStart := off + 3 + dataSyncLeading
		dataEnd := dataStart + sectorDataFieldSize
		if dataEnd+3 > len(src) {
			return sectors, fmt.Errorf("gcr: track truncated in sector %d data field", sector)
		}
		if src[off] != dataPrologue0 || src[off+1] != dataPrologue1 || src[off+2] != dataPrologue2 {
			return sectors, fmt.Errorf("gcr: missing data-field prologue for sector %d", sector)
		}
		if src[dataEnd] != dataEpilogue0 || src[dataEnd+1] != dataEpilogue1 || src[dataEnd+2] != dataEpilogue2 {
			return sectors, fmt.Errorf("gcr: missing data-field epilogue for sector %d", sector)
		}

		decoded, ok := DecodeSectorData(src[dataStart:dataEnd])
		if !ok {
			return sectors, fmt.Errorf("gcr: corrupt 6-and-2 data in sector %d", sector)
		}
		sectors[sector] = decoded

		off = dataEnd + 3 + dataSyncTrailing
	}
	return sectors, nil
}
