// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/bunny/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty       = errors.New(f("ip empty"))
	ErrTickLimit     = errors.New(f("tick limit reached"))
	ErrTargetInvalid = errors.New(f("target invalid"))
	ErrToggleInvalid = errors.New(f("toggle invalid"))

	// Assembler errors
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOpcodeDisabled     = errors.New(f("opcode not enabled"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode '%v'", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
