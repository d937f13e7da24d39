package core

import (
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// AssertCalled fails unless d was called at least once.
func AssertCalled(d *Double) error {
	if d.Called() {
		return nil
	}

	return fmt.Errorf("%w: expected %s to be called, but it was never called", ErrAssertion, d)
}

// AssertCalledOnce fails unless d was called exactly once.
func AssertCalledOnce(d *Double) error { return AssertCallCount(d, 1) }

// AssertCalledWith fails unless some call's arguments satisfy the matchers.
// The failure carries a diff of the expected arguments against every recorded call.
func AssertCalledWith(d *Double, matchers ...any) error {
	if d.CalledWith(matchers...) {
		return nil
	}

	calls := d.Calls()
	if len(calls) == 0 {
		return fmt.Errorf("%w: expected %s to be called with %s, but it was never called",
			ErrAssertion, d, formatArgs(matchers))
	}

	var actual strings.Builder
	for _, call := range calls {
		actual.WriteString(formatArgs(call.Args) + "\n")
	}

	diff := textdiff.Unified("expected", "actual", formatArgs(matchers)+"\n", actual.String())

	return fmt.Errorf("%w: expected %s to be called with %s\n%s", ErrAssertion, d, formatArgs(matchers), diff)
}

// AssertCallCount fails unless d was called exactly n times.
func AssertCallCount(d *Double, n int) error {
	calls := d.Calls()
	if len(calls) == n {
		return nil
	}

	return fmt.Errorf("%w: expected %s to be called %s, but it was called %s%s",
		ErrAssertion, d, times(n), times(len(calls)), listCalls(d, calls))
}

// AssertNotCalled fails if d was called at all.
func AssertNotCalled(d *Double) error { return AssertCallCount(d, 0) }

func listCalls(d *Double, calls []Call) string {
	var list strings.Builder
	for _, call := range calls {
		fmt.Fprintf(&list, "\n    %d: %s", call.Index, formatCall(d.Name(), call.Args))
	}

	return list.String()
}

func times(n int) string {
	switch n {
	case 0:
		return "never"
	case 1:
		return "once"
	case 2:
		return "twice"
	case 3:
		return "thrice"
	default:
		return fmt.Sprintf("%d times", n)
	}
}
