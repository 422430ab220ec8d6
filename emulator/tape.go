// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
)

// Tape streams the values sent by 'out' to a writer, one per line.
type Tape struct {
	Output io.Writer

	sent int
}

// Rewind restarts the tape at the beginning of the output.
func (tc *Tape) Rewind() {
	tc.sent = 0
}

// Send writes any output values not yet written.
func (tc *Tape) Send(values []int) (err error) {
	for tc.sent < len(values) {
		if tc.Output != nil {
			_, err = fmt.Fprintln(tc.Output, values[tc.sent])
			if err != nil {
				return
			}
		}
		tc.sent++
	}

	return
}
