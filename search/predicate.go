// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package search

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predicate decides if a bounded output stream is the wanted signal.
type Predicate func(output []int) (ok bool, err error)

// Clock accepts the alternating signal 0, 1, 0, 1, ...
func Clock(output []int) (ok bool, err error) {
	for n, value := range output {
		if value != n%2 {
			return
		}
	}

	ok = true
	return
}

// Starlark compiles a Starlark expression into a Predicate.
// The output stream is available to the expression as the list 'out',
// for example:
//
//	all([v == i % 2 for i, v in enumerate(out)])
func Starlark(expr string) (pred Predicate, err error) {
	opts := syntax.FileOptions{}
	_, err = opts.ParseExpr("predicate", expr, 0)
	if err != nil {
		err = &ErrPredicate{Expr: expr, Err: err}
		return
	}

	pred = func(output []int) (ok bool, err error) {
		thread := starlark.Thread{Name: "predicate"}

		values := make([]starlark.Value, len(output))
		for n, value := range output {
			values[n] = starlark.MakeInt(value)
		}
		env := starlark.StringDict{
			"out": starlark.NewList(values),
		}

		prog := "rc=" + expr + "\n"
		dict, err := starlark.ExecFileOptions(&opts, &thread, "predicate", prog, env)
		if err != nil {
			err = &ErrPredicate{Expr: expr, Err: err}
			return
		}
		st_rc, found := dict["rc"]
		if !found {
			err = &ErrPredicate{Expr: expr, Err: ErrPredicateResult}
			return
		}

		ok = bool(st_rc.Truth())
		return
	}

	return
}
