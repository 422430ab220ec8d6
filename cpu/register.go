// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Register is a general-purpose register index.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // a
	REG_B = Register(1) // b
	REG_C = Register(2) // c
	REG_D = Register(3) // d
)

const REGISTER_COUNT = 4 // Size of the register bank.

// regMap is a map of register names to registers.
var regMap = map[string]Register{
	"a": REG_A,
	"b": REG_B,
	"c": REG_C,
	"d": REG_D,
}

// ParseRegister returns the register named by word.
func ParseRegister(word string) (reg Register, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// Valid returns true if the register is one of a, b, c or d.
func (reg Register) Valid() bool {
	return reg >= REG_A && reg <= REG_D
}

// Registers is the register bank. Every register always has a value.
type Registers [REGISTER_COUNT]int

// Get the value of a register.
func (regs *Registers) Get(reg Register) int {
	return regs[reg]
}

// Set the value of a register.
func (regs *Registers) Set(reg Register, value int) {
	regs[reg] = value
}

// All iterates the registers in order.
func (regs *Registers) All() iter.Seq2[Register, int] {
	return func(yield func(reg Register, value int) bool) {
		for n, value := range regs {
			if !yield(Register(n), value) {
				return
			}
		}
	}
}

func (regs Registers) String() (text string) {
	for reg, value := range regs.All() {
		if len(text) != 0 {
			text += " "
		}
		text += fmt.Sprintf("%v=%d", reg, value)
	}
	return
}

// Override is an initial register value.
type Override struct {
	Register Register
	Value    int
}

// ParseOverride parses a 'reg=value' override.
func ParseOverride(text string) (ovr Override, err error) {
	name, number, ok := strings.Cut(text, "=")
	if !ok {
		err = ErrOpcodeValueMissing
		return
	}

	ovr.Register, err = ParseRegister(strings.TrimSpace(name))
	if err != nil {
		return
	}

	number = strings.TrimSpace(number)
	value, err := strconv.ParseInt(number, 10, 0)
	if err != nil {
		err = ErrParseNumber(number)
		return
	}
	ovr.Value = int(value)

	return
}

func (ovr Override) String() string {
	return fmt.Sprintf("%v=%d", ovr.Register, ovr.Value)
}

// Value is an operand: either a register or a constant.
type Value struct {
	register Register
	constant int
	isReg    bool
}

// RegisterValue makes a Value that reads a register.
func RegisterValue(reg Register) Value {
	return Value{register: reg, isReg: true}
}

// ConstantValue makes a Value with a fixed integer.
func ConstantValue(constant int) Value {
	return Value{constant: constant}
}

// ParseValue parses a register name or a signed base-10 integer.
func ParseValue(word string) (value Value, err error) {
	reg, ok := regMap[word]
	if ok {
		value = RegisterValue(reg)
		return
	}

	v64, err := strconv.ParseInt(word, 10, 0)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = ConstantValue(int(v64))
	return
}

// IsRegister returns true if the value refers to a register.
func (v Value) IsRegister() bool {
	return v.isReg
}

// Register returns the register of a register value.
func (v Value) Register() (reg Register, ok bool) {
	return v.register, v.isReg
}

// Constant returns the integer of a constant value.
func (v Value) Constant() (constant int, ok bool) {
	return v.constant, !v.isReg
}

// Resolve reads the value from a register bank.
func (v Value) Resolve(regs *Registers) int {
	if v.isReg {
		return regs[v.register]
	}
	return v.constant
}

func (v Value) String() string {
	if v.isReg {
		return v.register.String()
	}
	return strconv.Itoa(v.constant)
}
