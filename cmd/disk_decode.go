package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/disk/gcr"
)

var diskDecodeCmd = &cobra.Command{
	Use:   "decode IN.nib OUT.dsk",
	Short: "Decode a nibble image back into a raw sector-ordered image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nib, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(nib) != gcr.TrackSize*tracksPerDisk {
			return fmt.Errorf("%s: want a %d-byte nibble image, got %d", args[0], gcr.TrackSize*tracksPerDisk, len(nib))
		}

		out := make([]byte, disk.StandardImageSize)
		for track := 0; track < tracksPerDisk; track++ {
			trackBytes := nib[track*gcr.TrackSize : (track+1)*gcr.TrackSize]
			sectors, err := gcr.DecodeTrack(trackBytes)
			if err != nil {
				return fmt.Errorf("track %d: %w", track, err)
			}

			trackOffset := track * gcr.SectorsPerTrack * gcr.SectorPayload
			for sector, data := range sectors {
				start := trackOffset + sector*gcr.SectorPayload
				copy(out[start:start+gcr.SectorPayload], data)
			}
		}

		return os.WriteFile(args[1], out, 0o644)
	},
}

func init() {
	diskCmd.AddCommand(diskDecodeCmd)
}
