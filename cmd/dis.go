package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/dis/disassembler"
)

var disAddr string

// flatMemory adapts a plain byte slice, loaded at some base address,
// to the disassembler.Memory interface, reading zero outside its
// bounds rather than panicking.
type flatMemory struct {
	base uint16
	data []byte
}

func (f flatMemory) Peek(addr uint16) uint8 {
	offset := int(addr) - int(f.base)
	if offset < 0 || offset >= len(f.data) {
		return 0
	}
	return f.data[offset]
}

var disCmd = &cobra.Command{
	Use:   "dis IN.bin",
	Short: "Disassemble raw machine code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var base uint64
		if disAddr != "" {
			base, err = strconv.ParseUint(disAddr, 16, 16)
			if err != nil {
				return fmt.Errorf("--addr: %w", err)
			}
		}

		mem := flatMemory{base: uint16(base), data: data}
		pc := uint16(base)
		end := pc + uint16(len(data))
		for pc < end {
			loc := disassembler.Decode(mem, pc)
			fmt.Println(loc.String())
			pc += uint16(loc.Size())
		}
		return nil
	},
}

func init() {
	disCmd.Flags().StringVar(&disAddr, "addr", "0", "hex load address of the first byte")
	rootCmd.AddCommand(disCmd)
}
