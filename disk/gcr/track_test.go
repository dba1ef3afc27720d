package gcr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-systems/retrocore/disk/gcr"
)

func filledSectors(seed byte) [gcr.SectorsPerTrack][]byte {
	var sectors [gcr.SectorsPerTrack][]byte
	for i := range sectors {
		data := make([]byte, gcr.SectorPayload)
		for j := range data {
			data[j] = byte(i)*31 + byte(j) + seed
		}
		sectors[i] = data
	}
	return sectors
}

func TestEncodeDecodeTrackRoundTripDOS(t *testing.T) {
	sectors := filledSectors(0)
	track := make([]byte, gcr.TrackSize)
	gcr.EncodeTrack(track, sectors, 3, gcr.DOSOrder)

	decoded, err := gcr.DecodeTrack(track)
	require.NoError(t, err)

	for i := range sectors {
		assert.Equal(t, sectors[i], decoded[i], "sector %d", i)
	}
}

func TestEncodeDecodeTrackRoundTripProDOS(t *testing.T) {
	sectors := filledSectors(7)
	track := make([]byte, gcr.TrackSize)
	gcr.EncodeTrack(track, sectors, 10, gcr.ProDOSOrder)

	decoded, err := gcr.DecodeTrack(track)
	require.NoError(t, err)

	for i := range sectors {
		assert.Equal(t, sectors[i], decoded[i], "sector %d", i)
	}
}

func TestEncodedTrackHasFixedSize(t *testing.T) {
	sectors := filledSectors(0)
	track := make([]byte, gcr.TrackSize)
	gcr.EncodeTrack(track, sectors, 0, gcr.DOSOrder)
	assert.Len(t, track, gcr.TrackSize)
	assert.Equal(t, byte(0xFF), track[gcr.TrackSize-1], "the last sector's trailing sync ends exactly at TrackSize")
}

func TestDecodeTrackRejectsGarbage(t *testing.T) {
	garbage := make([]byte, gcr.TrackSize)
	_, err := gcr.DecodeTrack(garbage)
	assert.Error(t, err)
}

func TestDecodeTrackRejectsShortInput(t *testing.T) {
	_, err := gcr.DecodeTrack(make([]byte, 10))
	assert.Error(t, err)
}
