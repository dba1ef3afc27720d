package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/disk"
	"github.com/kestrel-systems/retrocore/disk/gcr"
)

var diskInspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the format and size of a disk image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		switch len(image) {
		case disk.StandardImageSize:
			tracks := disk.StandardImageSize / (gcr.SectorsPerTrack * gcr.SectorPayload)
			fmt.Printf("%s: raw DOS-order image, %d bytes, %d tracks, %d sectors/track\n",
				args[0], len(image), tracks, gcr.SectorsPerTrack)
		case disk.NibbleImageSize:
			tracks := disk.NibbleImageSize / gcr.TrackSize
			fmt.Printf("%s: nibble-encoded image, %d bytes, %d tracks of %d bytes\n",
				args[0], len(image), tracks, gcr.TrackSize)
		default:
			return fmt.Errorf("%s: unrecognized image size %d (want %d or %d)",
				args[0], len(image), disk.StandardImageSize, disk.NibbleImageSize)
		}
		return nil
	},
}

func init() {
	diskCmd.AddCommand(diskInspectCmd)
}
