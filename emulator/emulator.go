// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"maps"

	"github.com/ezrec/bunny/cpu"
	"github.com/ezrec/bunny/internal"
)

// Emulator state. Program + CPU + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Overrides []cpu.Override // Initial register values applied by Reset.
	FastPath  cpu.FastPath   // Optional accelerator installed by Reset.
	TickLimit int            // Optional tick limit installed by Reset.

	Tape Tape // Output tape.
}

// NewEmulator creates a new emulator for a program.
func NewEmulator(prog *cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Program: prog,
	}

	emu.Reset()

	return
}

// Reset the emulator to the start of the program.
func (emu *Emulator) Reset() {
	emu.Cpu = cpu.NewCpu(emu.Program, emu.Overrides...)
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.FastPath = emu.FastPath
	emu.Cpu.TickLimit = emu.TickLimit

	emu.Tape.Rewind()
}

// LineNo returns the current line number for the executing opcode.
// Zero is returned once the program has halted.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Code returns the current instruction code, as possibly modified by tgl.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.FetchCode()
	return code
}

// State returns an iterator over the registers and counters.
func (emu *Emulator) State() iter.Seq2[string, int] {
	regs := internal.IterSeq2Map(emu.Cpu.Register.All(), cpu.Register.String)
	counters := map[string]int{
		"ip":     emu.Cpu.Ip,
		"ticks":  emu.Cpu.Ticks,
		"output": len(emu.Cpu.Output),
	}

	return internal.IterSeq2Concat(regs, maps.All(counters))
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrIpEmpty) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	err = emu.Tape.Send(emu.Cpu.Output)

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Signal ticks the emulator until the program halts, or until more than
// limit values have been output, and returns the output.
func (emu *Emulator) Signal(limit int) (output []int, err error) {
	for done := false; !done && len(emu.Cpu.Output) <= limit; {
		done, err = emu.Tick()
		if err != nil {
			break
		}
	}

	output = emu.Cpu.Output
	return
}
