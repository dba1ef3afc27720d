package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/asm/assembler"
)

var asmOutput string

var asmCmd = &cobra.Command{
	Use:   "asm IN.s",
	Short: "Assemble 6502 source into raw machine code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		a := assembler.NewAssembler()
		if err := a.Assemble(string(source)); err != nil {
			return err
		}

		out := asmOutput
		if out == "" {
			out = args[0] + ".bin"
		}
		return os.WriteFile(out, a.GetOutput(), 0o644)
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "output file (default: IN.s.bin)")
	rootCmd.AddCommand(asmCmd)
}
