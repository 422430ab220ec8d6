// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"
)

// Cpu is the simulation context for the register machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ip       int       // Current instruction pointer.
	Register Registers // Register bank.
	Code     []Code    // Program store. Modified by tgl.
	Output   []int     // Values sent by out.

	Ticks     int      // CPU ticks counter.
	TickLimit int      // If non-zero, maximum ticks before ErrTickLimit.
	FastPath  FastPath // Optional program specific accelerator.
}

// NewCpu creates a new CPU loaded with a program, and with the
// register overrides applied. Registers not overridden start at 0.
func NewCpu(prog *Program, overrides ...Override) (cpu *Cpu) {
	cpu = &Cpu{
		Code: make([]Code, 0, prog.Len()),
	}

	for _, code := range prog.Codes() {
		cpu.Code = append(cpu.Code, code)
	}

	cpu.Override(overrides...)

	return
}

// Override sets initial register values.
func (cpu *Cpu) Override(overrides ...Override) {
	for _, ovr := range overrides {
		cpu.Register.Set(ovr.Register, ovr.Value)
	}
}

// Clone returns an independent copy of the CPU.
func (cpu *Cpu) Clone() *Cpu {
	clone := *cpu
	clone.Code = slices.Clone(cpu.Code)
	clone.Output = slices.Clone(cpu.Output)
	return &clone
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %v\n", "ip", cpu.Ip)
	for reg, value := range cpu.Register.All() {
		text += fmt.Sprintf("% 5s: %v\n", reg, value)
	}
	text += fmt.Sprintf("% 5s: %v\n", "out", cpu.Output)
	text += fmt.Sprintf("% 5s: %v\n", "ticks", cpu.Ticks)

	return
}

// Halted returns true if the instruction pointer is outside of the program.
func (cpu *Cpu) Halted() bool {
	return cpu.Ip < 0 || cpu.Ip >= len(cpu.Code)
}

// FetchCode fetches the next instruction to execute.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted() {
		err = ErrIpEmpty
		return
	}

	code = cpu.Code[cpu.Ip]
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted() {
		err = ErrIpEmpty
		return
	}

	if cpu.TickLimit > 0 && cpu.Ticks >= cpu.TickLimit {
		err = ErrTickLimit
		return
	}

	if cpu.FastPath != nil {
		next_ip, ok := cpu.FastPath.Apply(cpu)
		if ok {
			if cpu.Verbose {
				log.Printf("cpu: %03d: fast path to %03d", cpu.Ip, next_ip)
			}
			cpu.Ip = next_ip
			cpu.Ticks += 1
			return
		}
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	return cpu.Execute(code)
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: %03d: %v", cpu.Ip, code)
	}

	next_ip := cpu.Ip + 1

	switch code.Op {
	case OP_CPY:
		dst, ok := code.B.Register()
		if !ok {
			err = ErrTargetInvalid
			return
		}
		cpu.Register.Set(dst, code.A.Resolve(&cpu.Register))
	case OP_INC, OP_DEC:
		reg, ok := code.A.Register()
		if !ok {
			err = ErrTargetInvalid
			return
		}
		delta := 1
		if code.Op == OP_DEC {
			delta = -1
		}
		cpu.Register.Set(reg, cpu.Register.Get(reg)+delta)
	case OP_JNZ:
		if code.Invalid {
			break
		}
		if code.A.Resolve(&cpu.Register) != 0 {
			next_ip = cpu.Ip + code.B.Resolve(&cpu.Register)
		}
	case OP_TGL:
		target := cpu.Ip + code.A.Resolve(&cpu.Register)
		if target < 0 || target >= len(cpu.Code) {
			// Toggles past either end of the program are ignored.
			break
		}
		var toggled Code
		toggled, err = cpu.Code[target].Toggle()
		if err != nil {
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: %03d: toggle %v => %v", target, cpu.Code[target], toggled)
		}
		cpu.Code[target] = toggled
	case OP_OUT:
		cpu.Output = append(cpu.Output, code.A.Resolve(&cpu.Register))
	default:
		err = ErrOpcodeInvalid
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// run ticks until halted or until done returns true.
func (cpu *Cpu) run(done func() bool) (err error) {
	for !done() {
		err = cpu.Tick()
		if errors.Is(err, ErrIpEmpty) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}

	return
}

// Run runs a clone of the CPU until the instruction pointer leaves the
// program, and returns the clone.
func (cpu *Cpu) Run() (done *Cpu, err error) {
	done = cpu.Clone()
	err = done.run(func() bool { return false })
	return
}

// RunBounded runs a clone of the CPU until the instruction pointer
// leaves the program, or until more than limit values have been output.
func (cpu *Cpu) RunBounded(limit int) (done *Cpu, err error) {
	done = cpu.Clone()
	err = done.run(func() bool { return len(done.Output) > limit })
	return
}
