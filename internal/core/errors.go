package core

import "errors"

// Error kinds. Failures wrap one of these, so callers test with errors.Is.
var (
	// ErrTarget reports an attempt to wrap something that is not a func slot,
	// or a slot that already holds an installed double.
	ErrTarget = errors.New("cannot wrap target")
	// ErrRestore reports a restore of a double that is not currently installed.
	ErrRestore = errors.New("double is not installed")
	// ErrNoSuchCall reports a call position beyond the recorded history.
	ErrNoSuchCall = errors.New("no such call")
	// ErrExpectation reports an unmet mock expectation.
	ErrExpectation = errors.New("unmet expectation")
	// ErrAssertion reports a failed assertion helper.
	ErrAssertion = errors.New("assertion failed")
)
