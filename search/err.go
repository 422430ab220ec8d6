// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package search

import (
	"errors"

	"github.com/ezrec/bunny/translate"
)

var f = translate.From

var (
	ErrNotFound        = errors.New(f("no candidate matched"))
	ErrPredicateResult = errors.New(f("predicate has no result"))
)

type ErrPredicate struct {
	Expr string
	Err  error
}

func (err *ErrPredicate) Error() string {
	return f("predicate '%v' %v", err.Expr, err.Err)
}

func (err *ErrPredicate) Unwrap() error {
	return err.Err
}
