package core

import (
	"errors"
	"slices"
)

// Restorer is anything that can undo its installation, such as a *Double or *Mock.
type Restorer interface {
	Restore() error
}

// TestReporter is the minimal interface standin needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Verifier is anything with expectations to check, such as a *Mock.
type Verifier interface {
	Verify() error
}

// RestoreOnCleanup restores the given restorers, newest first, when t's test
// completes. It does nothing if t cannot register cleanups; *testing.T can.
func RestoreOnCleanup(t TestReporter, restorers ...Restorer) {
	t.Helper()

	cr, ok := t.(cleanupRegistrar)
	if !ok {
		return
	}

	cr.Cleanup(func() {
		var errs []error

		for _, r := range slices.Backward(restorers) {
			err := r.Restore()
			if err != nil {
				errs = append(errs, err)
			}
		}

		if err := errors.Join(errs...); err != nil {
			t.Fatalf("restoring doubles: %v", err)
		}
	})
}

// VerifyT verifies every verifier and fails the test with all unmet expectations.
func VerifyT(t TestReporter, verifiers ...Verifier) {
	t.Helper()

	var errs []error

	for _, v := range verifiers {
		err := v.Verify()
		if err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		t.Fatalf("%v", err)
	}
}

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
