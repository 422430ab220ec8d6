// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ezrec/bunny/config"
	"github.com/ezrec/bunny/cpu"
	"github.com/ezrec/bunny/emulator"
	"github.com/ezrec/bunny/search"
	"github.com/ezrec/bunny/translate"
)

var f = translate.From

var (
	ErrSourceConflict = errors.New(f("source file given with a job file"))
	ErrSourceMissing  = errors.New(f("source file or job file required"))
)

// flags shared by the run and signal commands.
type flags struct {
	config    string
	registers []string
	fast      bool
	output    bool
	tickLimit int
	verbose   bool
}

// job returns the job described by the config file or source argument,
// with command line flags applied on top.
func (fl *flags) job(args []string) (job *config.Job, err error) {
	switch {
	case len(fl.config) != 0 && len(args) != 0:
		err = ErrSourceConflict
		return
	case len(fl.config) != 0:
		job, err = config.Load(fl.config)
		if err != nil {
			return
		}
	case len(args) == 1:
		job = &config.Job{Source: args[0]}
	default:
		err = ErrSourceMissing
		return
	}

	job.FastPath = job.FastPath || fl.fast
	job.Output = job.Output || fl.output
	if fl.tickLimit != 0 {
		job.TickLimit = fl.tickLimit
	}

	for _, text := range fl.registers {
		var ovr cpu.Override
		ovr, err = cpu.ParseOverride(text)
		if err != nil {
			return
		}
		if job.Registers == nil {
			job.Registers = map[string]int{}
		}
		job.Registers[ovr.Register.String()] = ovr.Value
	}

	return
}

func (fl *flags) add(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&fl.config, "config", "c", "", "TOML job file")
	cmd.Flags().StringArrayVarP(&fl.registers, "register-init", "r", nil, "Initial register value, as reg=value")
	cmd.Flags().BoolVar(&fl.fast, "fast", false, "Enable the multiply loop fast path")
	cmd.Flags().BoolVar(&fl.output, "out", false, "Enable the out opcode")
	cmd.Flags().IntVar(&fl.tickLimit, "tick-limit", 0, "Maximum instructions to execute (0 = unlimited)")
	cmd.Flags().BoolVarP(&fl.verbose, "verbose", "v", false, "Verbose mode")
}

func runCommand() *cobra.Command {
	fl := &flags{}

	cmd := &cobra.Command{
		Use:   "run [file.asm]",
		Short: "Run a program to completion",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			job, err := fl.job(args)
			if err != nil {
				log.Fatalf("run: %v", err)
			}

			prog, err := job.Program()
			if err != nil {
				log.Fatalf("%v: %v", job.SourcePath(), err)
			}

			overrides, err := job.Overrides()
			if err != nil {
				log.Fatalf("%v: %v", job.SourcePath(), err)
			}

			emu := emulator.NewEmulator(prog)
			emu.Verbose = fl.verbose
			emu.Overrides = overrides
			emu.TickLimit = job.TickLimit
			if job.FastPath {
				emu.FastPath = &cpu.MultiplyLoop{Ip: cpu.MULTIPLY_LOOP_IP}
			}
			emu.Reset()
			emu.Tape.Output = cmd.OutOrStdout()

			err = emu.Run()
			if err != nil {
				log.Fatalf("%v: %v", job.SourcePath(), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), emu.Cpu.Register.String())
			if fl.verbose {
				log.Printf("ticks: %v", emu.Cpu.Ticks)
			}
		},
	}

	fl.add(cmd)

	return cmd
}

func signalCommand() *cobra.Command {
	fl := &flags{}

	var register string
	var start int
	var count int
	var limit int
	var workers int
	var predicate string

	cmd := &cobra.Command{
		Use:   "signal [file.asm]",
		Short: "Search for the initial register value producing a signal",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fl.output = true

			job, err := fl.job(args)
			if err != nil {
				log.Fatalf("signal: %v", err)
			}

			opts, err := job.SearchOptions()
			if err != nil {
				log.Fatalf("signal: %v", err)
			}
			opts.Verbose = fl.verbose

			set := cmd.Flags()
			if set.Changed("register") {
				opts.Register, err = cpu.ParseRegister(register)
				if err != nil {
					log.Fatalf("signal: %v: %v", register, err)
				}
			}
			if set.Changed("start") {
				opts.Start = start
			}
			if set.Changed("count") {
				opts.Count = count
			}
			if set.Changed("limit") {
				opts.Limit = limit
			}
			if set.Changed("workers") {
				opts.Workers = workers
			}
			if set.Changed("predicate") {
				opts.Predicate, err = search.Starlark(predicate)
				if err != nil {
					log.Fatalf("signal: %v", err)
				}
			}

			machine, err := job.Cpu()
			if err != nil {
				log.Fatalf("%v: %v", job.SourcePath(), err)
			}
			machine.Verbose = fl.verbose

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			result, err := search.Run(ctx, machine, opts)
			if err != nil {
				log.Fatalf("%v: %v", job.SourcePath(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%v=%v %v\n", opts.Register, result.Value, result.Output)
		},
	}

	fl.add(cmd)
	cmd.Flags().StringVar(&register, "register", "a", "Register to search over")
	cmd.Flags().IntVar(&start, "start", 0, "First candidate value")
	cmd.Flags().IntVar(&count, "count", search.DEFAULT_COUNT, "Number of candidates")
	cmd.Flags().IntVar(&limit, "limit", search.DEFAULT_LIMIT, "Output bound of each candidate run")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent candidates (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&predicate, "predicate", "", "Starlark expression over 'out' (default: 0,1 clock)")

	return cmd
}

func disasmCommand() *cobra.Command {
	var output bool

	cmd := &cobra.Command{
		Use:   "disasm file.asm",
		Short: "Print the assembled listing",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inf, err := os.Open(args[0])
			if err != nil {
				log.Fatalf("%v: %v", args[0], err)
			}
			defer inf.Close()

			asm := &cpu.Assembler{Opcodes: cpu.OPSET_DEFAULT}
			if output {
				asm.Opcodes = cpu.OPSET_OUTPUT
			}

			prog, err := asm.Parse(inf)
			if err != nil {
				log.Fatalf("%v: %v", args[0], err)
			}

			fmt.Fprint(cmd.OutOrStdout(), prog.Listing())
		},
	}

	cmd.Flags().BoolVar(&output, "out", false, "Enable the out opcode")

	return cmd
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bunny",
		Short: "Assembunny interpreter",
	}

	rootCmd.AddCommand(runCommand(), signalCommand(), disasmCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
