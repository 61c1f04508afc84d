// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateProject    = errors.New("duplicate project name")
	ErrEmptyProjectName    = errors.New("empty project name")
	ErrInvalidCost         = errors.New("invalid project cost")
	ErrIncompleteRanking   = errors.New("ranking is not a permutation of the projects")
	ErrWeightOutOfRange    = errors.New("voter weight out of range (0, 1]")
	ErrInvalidBudget       = errors.New("invalid budget")
	ErrInvalidGroup        = errors.New("invalid voter group")
	ErrDegenerateInstance  = errors.New("degenerate instance: total voter weight is zero")
	ErrInternalComputation = errors.New("internal computation error")
)

// codes maps each sentinel to the name reported to API clients
var codes = []struct {
	err  error
	code string
}{
	{ErrDuplicateProject, "DuplicateProject"},
	{ErrEmptyProjectName, "EmptyProjectName"},
	{ErrInvalidCost, "InvalidCost"},
	{ErrIncompleteRanking, "IncompleteRanking"},
	{ErrWeightOutOfRange, "WeightOutOfRange"},
	{ErrInvalidBudget, "InvalidBudget"},
	{ErrInvalidGroup, "InvalidGroup"},
	{ErrDegenerateInstance, "DegenerateInstance"},
	{ErrInternalComputation, "InternalComputationError"},
}

// ValidationError describes a rejected input value.
// Field names the offending input ("budget", "projects", "voters", "voter_groups")
// and Index its position, or -1 when the error is not tied to one element.
type ValidationError struct {
	Err    error
	Field  string
	Index  int
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, msg)
	} else if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field string, index int, detail string) *ValidationError {
	return &ValidationError{Err: err, Field: field, Index: index, Detail: detail}
}

// Code returns the taxonomy name of err, or "" if err is not an engine error
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// IsInputError reports whether err was caused by a bad instance rather than a bug
func IsInputError(err error) bool {
	code := Code(err)
	return code != "" && !errors.Is(err, ErrInternalComputation)
}
