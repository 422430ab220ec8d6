// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads TOML job files describing a program run.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/bunny/cpu"
	"github.com/ezrec/bunny/search"
	"github.com/ezrec/bunny/translate"
)

var f = translate.From

var (
	ErrSourceMissing = errors.New(f("source missing"))
)

// ErrConfig indicates the job file with a load error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Signal configures a signal search.
type Signal struct {
	Register  string `toml:"register"`
	Start     int    `toml:"start"`
	Count     int    `toml:"count"`
	Limit     int    `toml:"limit"`
	Workers   int    `toml:"workers"`
	Predicate string `toml:"predicate"`
}

// Job is a program run described by a TOML file.
type Job struct {
	Source    string         `toml:"source"`     // Assembunny source, relative to the job file.
	Output    bool           `toml:"output"`     // Enables the out opcode.
	FastPath  bool           `toml:"fast_path"`  // Enables the multiply loop fast path.
	TickLimit int            `toml:"tick_limit"` // Zero is unlimited.
	Registers map[string]int `toml:"registers"`  // Initial register values.
	Signal    *Signal        `toml:"signal"`     // Optional signal search.

	// Dir is the directory containing the job file (set at load time).
	Dir string `toml:"-"`
}

// Load parses a job file.
func Load(path string) (job *Job, err error) {
	defer func() {
		if err != nil {
			job = nil
			err = &ErrConfig{Path: path, Err: err}
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	job, err = Parse(string(data))
	if err != nil {
		return
	}

	job.Dir, err = filepath.Abs(filepath.Dir(path))
	return
}

// Parse parses the text of a job file.
func Parse(text string) (job *Job, err error) {
	job = &Job{}

	_, err = toml.Decode(text, job)
	if err != nil {
		job = nil
		return
	}

	if len(job.Source) == 0 {
		job = nil
		err = ErrSourceMissing
		return
	}

	_, err = job.Overrides()
	if err != nil {
		job = nil
		return
	}

	if job.Signal != nil && len(job.Signal.Register) != 0 {
		_, err = cpu.ParseRegister(job.Signal.Register)
		if err != nil {
			job = nil
			return
		}
	}

	return
}

// Opcodes returns the opcode set enabled by the job.
func (job *Job) Opcodes() cpu.OpSet {
	if job.Output {
		return cpu.OPSET_OUTPUT
	}
	return cpu.OPSET_DEFAULT
}

// Overrides returns the initial register values, sorted by register.
func (job *Job) Overrides() (overrides []cpu.Override, err error) {
	for name, value := range job.Registers {
		var reg cpu.Register
		reg, err = cpu.ParseRegister(name)
		if err != nil {
			return
		}
		overrides = append(overrides, cpu.Override{Register: reg, Value: value})
	}

	slices.SortFunc(overrides, func(a, b cpu.Override) int {
		return int(a.Register) - int(b.Register)
	})

	return
}

// SourcePath returns the path of the assembunny source.
func (job *Job) SourcePath() string {
	if filepath.IsAbs(job.Source) || len(job.Dir) == 0 {
		return job.Source
	}
	return filepath.Join(job.Dir, job.Source)
}

// Program assembles the job source.
func (job *Job) Program() (prog *cpu.Program, err error) {
	inf, err := os.Open(job.SourcePath())
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Opcodes: job.Opcodes()}
	return asm.Parse(inf)
}

// Cpu assembles the job source, and returns a CPU ready to run it.
func (job *Job) Cpu() (machine *cpu.Cpu, err error) {
	prog, err := job.Program()
	if err != nil {
		return
	}

	overrides, err := job.Overrides()
	if err != nil {
		return
	}

	machine = cpu.NewCpu(prog, overrides...)
	machine.TickLimit = job.TickLimit
	if job.FastPath {
		machine.FastPath = &cpu.MultiplyLoop{Ip: cpu.MULTIPLY_LOOP_IP}
	}

	return
}

// SearchOptions returns the options of the signal search.
func (job *Job) SearchOptions() (opts search.Options, err error) {
	opts.TickLimit = job.TickLimit

	sig := job.Signal
	if sig == nil {
		return
	}

	if len(sig.Register) != 0 {
		opts.Register, err = cpu.ParseRegister(sig.Register)
		if err != nil {
			return
		}
	}

	opts.Start = sig.Start
	opts.Count = sig.Count
	opts.Limit = sig.Limit
	opts.Workers = sig.Workers

	if len(sig.Predicate) != 0 {
		opts.Predicate, err = search.Starlark(sig.Predicate)
	}

	return
}
