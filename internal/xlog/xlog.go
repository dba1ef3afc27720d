// Package xlog is the thin logging shim used across the emulator core.
//
// The teacher's own main packages log with the standard library's log
// package (log.Fatal); none of the retrieved example repos pull in a
// structured logging library for their emulator cores, so this keeps
// that texture rather than reaching for one. It exists mostly so the
// core's diagnostic lines (BAD opcode, boot failure) share one prefix
// and one place to redirect output.
package xlog

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "retrocore: ", log.LstdFlags)

// SetOutput redirects where diagnostic lines are written (stderr by
// default).
func SetOutput(w interface {
	Write(p []byte) (int, error)
}) {
	std.SetOutput(w)
}

// Warnf logs a non-fatal diagnostic line, e.g. a BAD opcode encountered
// during execution or a soft switch access that doesn't resolve.
func Warnf(format string, args ...any) {
	std.Printf(format, args...)
}

// Fatalf logs a diagnostic line and then terminates the process. Used
// for a segment out-of-bounds access and, in cmd.Execute, for any
// error a subcommand returns (an unreadable ROM/disk image included).
func Fatalf(format string, args ...any) {
	std.Fatalf(format, args...)
}
