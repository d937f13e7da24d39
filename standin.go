// Package standin provides spies, stubs and mocks for Go tests.
//
// A spy records calls and forwards them to a delegate, a stub answers with
// configured values or errors, and a mock checks expectations on demand.
// Doubles can be free-standing callables or can be installed into a func
// slot of an object (an exported func field of a struct, or an entry of a
// string-keyed map) and restored afterwards.
//
// This is the public API entry point. Implementation lives in internal/core.
package standin

import (
	"log/slog"

	"github.com/toejough/standin/internal/core"
)

// Call records one invocation of a double.
type Call = core.Call

// Double is a callable substitute that records every invocation.
type Double = core.Double

// Expectation constrains the calls a mock double receives.
type Expectation = core.Expectation

// Kind distinguishes spies, stubs and mock doubles.
type Kind = core.Kind

// Kinds.
const (
	KindSpy  = core.KindSpy
	KindStub = core.KindStub
	KindMock = core.KindMock
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega matchers.
type Matcher = core.Matcher

// Mock installs doubles on the methods of one target and verifies expectations.
type Mock = core.Mock

// Option configures a double or mock at creation.
type Option = core.Option

// Restorer is anything that can undo its installation.
type Restorer = core.Restorer

// TestReporter is the minimal interface standin needs from test frameworks.
type TestReporter = core.TestReporter

// Verifier is anything with expectations to check.
type Verifier = core.Verifier

// Error kinds, for use with errors.Is.
var (
	ErrTarget      = core.ErrTarget
	ErrRestore     = core.ErrRestore
	ErrNoSuchCall  = core.ErrNoSuchCall
	ErrExpectation = core.ErrExpectation
	ErrAssertion   = core.ErrAssertion
)

// As returns the double's callable as the concrete func type F.
func As[F any](d *Double) F {
	return core.As[F](d)
}

// AssertCalled fails unless d was called at least once.
func AssertCalled(d *Double) error {
	return core.AssertCalled(d)
}

// AssertCalledOnce fails unless d was called exactly once.
func AssertCalledOnce(d *Double) error {
	return core.AssertCalledOnce(d)
}

// AssertCalledWith fails unless some call's arguments satisfy the matchers.
func AssertCalledWith(d *Double, matchers ...any) error {
	return core.AssertCalledWith(d, matchers...)
}

// AssertCallCount fails unless d was called exactly n times.
func AssertCallCount(d *Double, n int) error {
	return core.AssertCallCount(d, n)
}

// AssertNotCalled fails if d was called at all.
func AssertNotCalled(d *Double) error {
	return core.AssertNotCalled(d)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// NewMock creates a mock for target.
func NewMock(target any, opts ...Option) *Mock {
	return core.NewMock(target, opts...)
}

// NewSpy creates a spy forwarding to delegate, or a no-op spy when delegate is nil.
func NewSpy(delegate any, opts ...Option) *Double {
	return core.NewSpy(delegate, opts...)
}

// NewStub creates a func(args ...any) any stub.
func NewStub(opts ...Option) *Double {
	return core.NewStub(opts...)
}

// NewStubFor creates a stub with the signature of the given func value.
func NewStubFor(signature any, opts ...Option) *Double {
	return core.NewStubFor(signature, opts...)
}

// RestoreOnCleanup restores the given restorers when t's test completes.
func RestoreOnCleanup(t TestReporter, restorers ...Restorer) {
	core.RestoreOnCleanup(t, restorers...)
}

// VerifyT verifies every verifier and fails the test with all unmet expectations.
func VerifyT(t TestReporter, verifiers ...Verifier) {
	core.VerifyT(t, verifiers...)
}

// WithLogger traces installs, invocations and restores at debug level.
func WithLogger(logger *slog.Logger) Option {
	return core.WithLogger(logger)
}

// WithName sets the name used in failure messages and traces.
func WithName(name string) Option {
	return core.WithName(name)
}

// Wrap installs a spy on the func slot method of target.
func Wrap(target any, method string, opts ...Option) (*Double, error) {
	return core.Wrap(target, method, opts...)
}

// WrapStub installs a stub on the func slot method of target.
func WrapStub(target any, method string, opts ...Option) (*Double, error) {
	return core.WrapStub(target, method, opts...)
}
