// Command retrocore is the CLI front end for the emulator core: it
// runs a machine under the interactive debugger, converts disk images
// between raw and nibble formats, and assembles/disassembles 6502
// code.
package main

import "github.com/kestrel-systems/retrocore/cmd"

func main() {
	cmd.Execute()
}
