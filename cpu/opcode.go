// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

// CodeOp is an instruction operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_CPY = CodeOp(0) // cpy
	OP_INC = CodeOp(1) // inc
	OP_DEC = CodeOp(2) // dec
	OP_JNZ = CodeOp(3) // jnz
	OP_TGL = CodeOp(4) // tgl
	OP_OUT = CodeOp(5) // out
)

// OpSet is a set of enabled operations.
type OpSet uint

const (
	OPSET_DEFAULT = OpSet(1<<OP_CPY | 1<<OP_INC | 1<<OP_DEC | 1<<OP_JNZ | 1<<OP_TGL)
	OPSET_OUTPUT  = OPSET_DEFAULT | OpSet(1<<OP_OUT)
)

// Has returns true if op is in the set. The empty set is OPSET_DEFAULT.
func (set OpSet) Has(op CodeOp) bool {
	if set == 0 {
		set = OPSET_DEFAULT
	}
	return (set & (1 << op)) != 0
}

// opMap maps opcode names.
var opMap = map[string]CodeOp{
	"cpy": OP_CPY,
	"inc": OP_INC,
	"dec": OP_DEC,
	"jnz": OP_JNZ,
	"tgl": OP_TGL,
	"out": OP_OUT,
}

// Code is a single instruction.
//
// Operand use by operation:
//
//	cpy A B   ; A is the source, B is the destination register.
//	inc A     ; A is a register.
//	dec A     ; A is a register.
//	jnz A B   ; A is tested, B is the relative jump offset.
//	tgl A     ; A is a register holding the relative toggle target.
//	out A     ; A is sent to the output.
//
// Invalid is only ever set on a jnz, by toggling one whose offset is a
// constant. An invalid jnz executes as a no-op.
type Code struct {
	Op      CodeOp
	A       Value
	B       Value
	Invalid bool
}

// MakeCodeCpy creates a register copy instruction.
func MakeCodeCpy(from Value, to Register) Code {
	return Code{Op: OP_CPY, A: from, B: RegisterValue(to)}
}

// MakeCodeInc creates a register increment instruction.
func MakeCodeInc(reg Register) Code {
	return Code{Op: OP_INC, A: RegisterValue(reg)}
}

// MakeCodeDec creates a register decrement instruction.
func MakeCodeDec(reg Register) Code {
	return Code{Op: OP_DEC, A: RegisterValue(reg)}
}

// MakeCodeJnz creates a relative jump-if-not-zero instruction.
func MakeCodeJnz(value Value, offset Value) Code {
	return Code{Op: OP_JNZ, A: value, B: offset}
}

// MakeCodeTgl creates a toggle instruction.
func MakeCodeTgl(reg Register) Code {
	return Code{Op: OP_TGL, A: RegisterValue(reg)}
}

// MakeCodeOut creates an output instruction.
func MakeCodeOut(value Value) Code {
	return Code{Op: OP_OUT, A: value}
}

// Args returns the number of operands used by the instruction.
func (code Code) Args() int {
	switch code.Op {
	case OP_CPY, OP_JNZ:
		return 2
	default:
		return 1
	}
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	switch code.Args() {
	case 2:
		out = fmt.Sprintf("%v %v %v", code.Op, code.A, code.B)
	default:
		out = fmt.Sprintf("%v %v", code.Op, code.A)
	}

	if code.Invalid {
		out += " ; disabled"
	}

	return
}
