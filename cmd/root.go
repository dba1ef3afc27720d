// Package cmd is the retrocore command-line interface: one file per
// subcommand, following the teacher pack's retroio layout, wired
// against the emulator core (machine), the disk codec (disk/gcr), the
// assembler (asm/assembler), and the disassembler (dis/disassembler).
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/internal/xlog"
)

var rootCmd = &cobra.Command{
	Use:   "retrocore",
	Short: "An 8-bit personal computer emulator core",
	Long:  `retrocore runs, assembles, disassembles, and inspects software for a 6502-based 8-bit machine.`,
}

// Execute runs the selected subcommand, logging and exiting non-zero
// on failure the way the teacher's main packages do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		xlog.Fatalf("%v", err)
	}
}

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Inspect and convert floppy disk images",
}

func init() {
	rootCmd.AddCommand(diskCmd)
}
