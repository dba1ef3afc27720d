package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/disk/gcr"
)

// tracksPerDisk is the track count a standard raw DOS-order image
// implies: the image is laid out as sequential tracks of
// SectorsPerTrack*SectorPayload bytes each.
const tracksPerDisk = disk.StandardImageSize / (gcr.SectorsPerTrack * gcr.SectorPayload)

var diskEncodeOrder string

var diskEncodeCmd = &cobra.Command{
	Use:   "encode RAW.dsk OUT.nib",
	Short: "GCR-encode a raw sector-ordered image into a nibble image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := parseOrder(diskEncodeOrder)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(raw) != disk.StandardImageSize {
			return fmt.Errorf("%s: want a %d-byte raw image, got %d", args[0], disk.StandardImageSize, len(raw))
		}

		out := make([]byte, gcr.TrackSize*tracksPerDisk)
		for track := 0; track < tracksPerDisk; track++ {
			var sectors [gcr.SectorsPerTrack][]byte
			trackOffset := track * gcr.SectorsPerTrack * gcr.SectorPayload
			for sector := 0; sector < gcr.SectorsPerTrack; sector++ {
				start := trackOffset + sector*gcr.SectorPayload
				sectors[sector] = raw[start : start+gcr.SectorPayload]
			}
			gcr.EncodeTrack(out[track*gcr.TrackSize:(track+1)*gcr.TrackSize], sectors, track, order)
		}

		return os.WriteFile(args[1], out, 0o644)
	},
}

func parseOrder(s string) (gcr.Order, error) {
	switch s {
	case "dos", "":
		return gcr.DOSOrder, nil
	case "prodos":
		return gcr.ProDOSOrder, nil
	default:
		return 0, fmt.Errorf("unknown sector order %q (want dos or prodos)", s)
	}
}

func init() {
	diskEncodeCmd.Flags().StringVar(&diskEncodeOrder, "order", "dos", "sector interleave order: dos or prodos")
	diskCmd.AddCommand(diskEncodeCmd)
}
