package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/akedrou/textdiff"
)

// Mock installs doubles on the methods of one target and verifies the
// expectations attached to them.
type Mock struct {
	target any
	name   string
	opts   []Option
	logger *slog.Logger

	mu           sync.Mutex
	doubles      []*Double // installation order
	byMethod     map[string]*Double
	expectations []*Expectation
}

// NewMock creates a mock for target. Nothing is installed until Expects is called.
func NewMock(target any, opts ...Option) *Mock {
	cfg := newConfig(opts)

	return &Mock{
		target:   target,
		name:     cfg.name,
		opts:     opts,
		logger:   cfg.logger,
		byMethod: make(map[string]*Double),
	}
}

// Double returns the double this mock installed for method, if any.
func (m *Mock) Double(method string) (*Double, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.byMethod[method]

	return d, ok
}

// Expects attaches a fresh expectation to method, installing a mock double on
// the slot the first time the method is expected. Install failures wrap ErrTarget.
func (m *Mock) Expects(method string) (*Expectation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.byMethod[method]
	if !ok || !d.Installed() {
		// doubles are always named after their method
		fresh, err := wrap(KindMock, m.target, method, append(slices.Clone(m.opts), WithName(method)))
		if err != nil {
			return nil, err
		}

		// a restored double is replaced, not restored again
		m.doubles = slices.DeleteFunc(m.doubles, func(old *Double) bool { return old == d })
		m.byMethod[method] = fresh
		m.doubles = append(m.doubles, fresh)
		d = fresh
	}

	exp := &Expectation{double: d, maxCalls: -1}

	d.mu.Lock()
	exp.start = len(d.calls)
	d.expectations = append(d.expectations, exp)
	d.mu.Unlock()

	m.expectations = append(m.expectations, exp)

	return exp, nil
}

// Restore restores every double this mock installed, newest first. Every
// restore is attempted; the failures are joined.
func (m *Mock) Restore() error {
	m.mu.Lock()
	doubles := slices.Clone(m.doubles)
	m.mu.Unlock()

	var errs []error

	for _, d := range slices.Backward(doubles) {
		err := d.Restore()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Verify checks every expectation against the calls recorded since it was
// attached. All unmet expectations are reported, each wrapping ErrExpectation.
func (m *Mock) Verify() error {
	m.mu.Lock()
	expectations := slices.Clone(m.expectations)
	m.mu.Unlock()

	var errs []error

	for _, exp := range expectations {
		err := exp.verify()
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		m.logger.Debug("mock verification failed", slog.String("mock", m.name), slog.Int("unmet", len(errs)))
	}

	return errors.Join(errs...)
}

// Expectation constrains the calls a mock double receives. The zero
// expectation accepts any arguments and any number of calls.
// Builder methods return the expectation for chaining.
type Expectation struct {
	double *Double
	start  int

	// guarded by double.mu
	matchers    []any
	hasMatchers bool
	minCalls    int
	maxCalls    int // negative means unbounded
	response    *plan
}

// AtLeast requires n or more matching calls.
func (e *Expectation) AtLeast(n int) *Expectation {
	return e.update(func() { e.minCalls = n })
}

// AtLeastOnce requires one or more matching calls.
func (e *Expectation) AtLeastOnce() *Expectation { return e.AtLeast(1) }

// AtMost allows no more than n matching calls.
func (e *Expectation) AtMost(n int) *Expectation {
	return e.update(func() { e.maxCalls = n })
}

// Exactly requires n matching calls.
func (e *Expectation) Exactly(n int) *Expectation {
	return e.update(func() {
		e.minCalls = n
		e.maxCalls = n
	})
}

// Never requires that no call matches.
func (e *Expectation) Never() *Expectation { return e.Exactly(0) }

// Once requires exactly one matching call.
func (e *Expectation) Once() *Expectation { return e.Exactly(1) }

// Returns answers matching calls with values. Other calls fall through to
// the double's own behaviour, which returns zero values unless configured.
func (e *Expectation) Returns(values ...any) *Expectation {
	converted := convertReturns(e.double.fnType, values)

	return e.update(func() { e.response = &plan{behavior: behaveReturn, returns: converted} })
}

func (e *Expectation) String() string {
	e.double.mu.Lock()
	defer e.double.mu.Unlock()

	return e.describe()
}

// Thrice requires exactly three matching calls.
func (e *Expectation) Thrice() *Expectation { return e.Exactly(3) }

// Throws answers matching calls with err, returned or panicked as Double.Throws does.
func (e *Expectation) Throws(err error) *Expectation {
	if err == nil {
		panic(fmt.Sprintf("%s: Throws needs a non-nil error", e.double))
	}

	return e.update(func() { e.response = &plan{behavior: behaveThrow, err: err} })
}

// Twice requires exactly two matching calls.
func (e *Expectation) Twice() *Expectation { return e.Exactly(2) }

// WithArgs sets the positional argument matchers. Each is a Matcher or a
// literal compared by deep equality.
func (e *Expectation) WithArgs(matchers ...any) *Expectation {
	return e.update(func() {
		e.matchers = matchers
		e.hasMatchers = true
	})
}

func (e *Expectation) accepts(args []any) bool {
	return !e.hasMatchers || matchArgs(args, e.matchers) == nil
}

// answers reports whether this expectation should respond to a call with args.
func (e *Expectation) answers(args []any, calls []Call) bool {
	if !e.accepts(args) {
		return false
	}

	return e.maxCalls < 0 || e.countIn(calls) < e.maxCalls
}

func (e *Expectation) countIn(calls []Call) int {
	count := 0

	for _, call := range calls[e.start:] {
		if e.accepts(call.Args) {
			count++
		}
	}

	return count
}

func (e *Expectation) describe() string {
	if e.hasMatchers {
		return formatCall(e.double.name, e.matchers)
	}

	return e.double.name + "(...)"
}

func (e *Expectation) describeCount() string {
	switch {
	case e.maxCalls < 0 && e.minCalls <= 0:
		return "any number of calls"
	case e.maxCalls < 0:
		return fmt.Sprintf("at least %d call(s)", e.minCalls)
	case e.minCalls == e.maxCalls:
		return fmt.Sprintf("exactly %d call(s)", e.minCalls)
	case e.minCalls <= 0:
		return fmt.Sprintf("at most %d call(s)", e.maxCalls)
	default:
		return fmt.Sprintf("between %d and %d calls", e.minCalls, e.maxCalls)
	}
}

func (e *Expectation) update(change func()) *Expectation {
	e.double.mu.Lock()
	defer e.double.mu.Unlock()

	change()

	return e
}

func (e *Expectation) verify() error {
	e.double.mu.Lock()
	defer e.double.mu.Unlock()

	count := e.countIn(e.double.calls)
	if count >= e.minCalls && (e.maxCalls < 0 || count <= e.maxCalls) {
		return nil
	}

	msg := fmt.Sprintf("%s: expected %s, got %d matching", e.describe(), e.describeCount(), count)

	recorded := e.double.calls[e.start:]
	if e.hasMatchers && count < e.minCalls && len(recorded) > 0 {
		msg += "\n" + e.diff(recorded)
	}

	return fmt.Errorf("%w: %s", ErrExpectation, msg)
}

// diff renders the expected call against the calls actually recorded.
func (e *Expectation) diff(recorded []Call) string {
	var actual strings.Builder
	for _, call := range recorded {
		actual.WriteString(formatCall(e.double.name, call.Args) + "\n")
	}

	return textdiff.Unified("expected", "actual", e.describe()+"\n", actual.String())
}
