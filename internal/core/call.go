package core

import "slices"

// Call records one invocation of a double.
type Call struct {
	// Index is the position of the call in the double's history.
	Index int
	// Args holds the positional arguments, with any variadic tail flattened.
	Args []any
	// Receiver is the object an installed double was wrapped onto, nil for free doubles.
	Receiver any
	// Returns holds the results the double produced. Empty when it panicked.
	Returns []any
	// Err is the non-nil trailing error result, if any.
	Err error
	// Panic is the value the double panicked with, if any.
	Panic any
}

// Threw reports whether the call panicked or returned a non-nil error.
func (c Call) Threw() bool {
	return c.Panic != nil || c.Err != nil
}

func (c Call) clone() Call {
	c.Args = slices.Clone(c.Args)
	c.Returns = slices.Clone(c.Returns)

	return c
}
