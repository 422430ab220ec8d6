// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/bunny/translate"
)

var f = translate.From

// ErrRuntime indicates the source location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Ip     int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (ip %d) %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
