// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location.
type Opcode struct {
	LineNo int
	Words  []string
	Code   Code
}

// Program is an assembled listing. The instruction pointer of a Code is
// its index in Opcodes.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the source opcode at an instruction pointer.
// The Opcode is nil if ip is outside of the program.
func (prog *Program) Debug(ip int) (dbg Debug) {
	if ip < 0 || ip >= len(prog.Opcodes) {
		return
	}

	dbg = Debug{
		Opcode: &prog.Opcodes[ip],
		Index:  ip,
	}

	return
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Codes iterates the instructions by instruction pointer.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for ip, op := range prog.Opcodes {
			if !yield(ip, op.Code) {
				return
			}
		}
	}
}

// Listing returns a printable listing of the program.
func (prog *Program) Listing() string {
	var sb strings.Builder

	for ip, op := range prog.Opcodes {
		fmt.Fprintf(&sb, "%04d %4d: %v\n", op.LineNo, ip, op.Code)
	}

	return sb.String()
}
