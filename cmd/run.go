package cmd

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kestrel-systems/retrocore/debugger"
	"github.com/kestrel-systems/retrocore/machine"
)

var (
	runROM        string
	runExpansion  string
	runPeripheral string
	runDisk1      string
	runDisk2      string
	runBreak      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot a machine and attach the interactive debugger",
	Long:  `Loads ROM and disk images, starts the fetch/execute loop on its own goroutine, and attaches the terminal debugger to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runROM == "" {
			return fmt.Errorf("--rom is required")
		}

		sys, err := os.ReadFile(runROM)
		if err != nil {
			return err
		}
		var expansion, peripheral []byte
		if runExpansion != "" {
			if expansion, err = os.ReadFile(runExpansion); err != nil {
				return err
			}
		}
		if runPeripheral != "" {
			if peripheral, err = os.ReadFile(runPeripheral); err != nil {
				return err
			}
		}

		m := machine.New()
		if err := m.LoadROMs(sys, expansion, peripheral); err != nil {
			return err
		}

		if runDisk1 != "" {
			image, err := os.ReadFile(runDisk1)
			if err != nil {
				return err
			}
			if err := m.InsertDisk(1, image); err != nil {
				return err
			}
		}
		if runDisk2 != "" {
			image, err := os.ReadFile(runDisk2)
			if err != nil {
				return err
			}
			if err := m.InsertDisk(2, image); err != nil {
				return err
			}
		}

		if runBreak != "" {
			addr, err := strconv.ParseUint(runBreak, 16, 16)
			if err != nil {
				return fmt.Errorf("--break: %w", err)
			}
			m.SetBreakpoint(uint16(addr))
		}

		go m.Run()
		m.Pause()

		_, err = tea.NewProgram(debugger.New(m)).Run()
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runROM, "rom", "", "system ROM image (required)")
	runCmd.Flags().StringVar(&runExpansion, "expansion-rom", "", "expansion ROM image ($C800-$CFFF)")
	runCmd.Flags().StringVar(&runPeripheral, "peripheral-rom", "", "peripheral ROM image ($C100-$C7FF)")
	runCmd.Flags().StringVar(&runDisk1, "disk1", "", "disk image for drive 1")
	runCmd.Flags().StringVar(&runDisk2, "disk2", "", "disk image for drive 2")
	runCmd.Flags().StringVar(&runBreak, "break", "", "hex address to break at before running")
	rootCmd.AddCommand(runCmd)
}
