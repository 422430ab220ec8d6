// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package search finds the initial register value that makes a program
// emit a wanted signal.
//
// Each candidate runs on its own clone of the machine, so candidates are
// evaluated concurrently without locking.
package search

import (
	"context"
	"errors"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/bunny/cpu"
)

const (
	DEFAULT_COUNT = 1 << 16 // Candidates tried when Options.Count is zero.
	DEFAULT_LIMIT = 9       // Output bound when Options.Limit is zero.
)

// Options of a signal search.
type Options struct {
	Verbose   bool         // If set, logs each matching round.
	Register  cpu.Register // Register to search over.
	Start     int          // First candidate value.
	Count     int          // Number of candidates.
	Limit     int          // Output bound of each run.
	Workers   int          // Concurrent candidates. Zero is GOMAXPROCS.
	TickLimit int          // If non-zero, candidates running longer do not match.
	Predicate Predicate    // Signal test. Nil is Clock.
}

// Result of a signal search.
type Result struct {
	Value  int   // Matching initial register value.
	Output []int // Bounded output of the matching run.
}

// candidate evaluates a single initial value.
func (opts *Options) candidate(machine *cpu.Cpu, value int) (output []int, ok bool, err error) {
	clone := machine.Clone()
	clone.Register.Set(opts.Register, value)
	if opts.TickLimit > 0 {
		clone.TickLimit = opts.TickLimit
	}

	done, err := clone.RunBounded(opts.Limit)
	if errors.Is(err, cpu.ErrTickLimit) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	// A program that halts before producing the whole bound is not a signal.
	if len(done.Output) <= opts.Limit {
		return
	}

	output = done.Output
	ok, err = opts.Predicate(output)
	return
}

// Run searches for the smallest initial value of Options.Register, in
// [Start, Start+Count), whose bounded output satisfies the predicate.
// The machine itself is not modified.
func Run(ctx context.Context, machine *cpu.Cpu, options Options) (result Result, err error) {
	opts := options
	if opts.Count == 0 {
		opts.Count = DEFAULT_COUNT
	}
	if opts.Limit == 0 {
		opts.Limit = DEFAULT_LIMIT
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Predicate == nil {
		opts.Predicate = Clock
	}

	end := opts.Start + opts.Count

	outputs := make([][]int, opts.Workers)
	matched := make([]bool, opts.Workers)

	for base := opts.Start; base < end; base += opts.Workers {
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(opts.Workers)

		clear(outputs)
		clear(matched)

		for n := range opts.Workers {
			value := base + n
			if value >= end {
				break
			}
			group.Go(func() (err error) {
				err = gctx.Err()
				if err != nil {
					return
				}
				outputs[n], matched[n], err = opts.candidate(machine, value)
				return
			})
		}

		err = group.Wait()
		if err != nil {
			return
		}

		for n, ok := range matched {
			if ok {
				result = Result{Value: base + n, Output: outputs[n]}
				if opts.Verbose {
					log.Printf("search: %v=%v output %v", opts.Register, result.Value, result.Output)
				}
				return
			}
		}

		if opts.Verbose {
			log.Printf("search: %v in [%v, %v) no match", opts.Register, base, min(base+opts.Workers, end))
		}
	}

	err = ErrNotFound
	return
}
