package core

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Double is a callable substitute that records every invocation.
//
// Spies forward to a delegate (or do nothing), stubs answer with configured
// values or errors, and mock doubles answer from the expectations attached
// through a Mock. All three share the same call history.
type Double struct {
	id       uint64
	name     string
	kind     Kind
	logger   *slog.Logger
	fnType   reflect.Type
	fn       reflect.Value
	receiver any

	mu           sync.Mutex
	calls        []Call
	plan         plan
	install      *installation
	expectations []*Expectation
}

// NewSpy creates a spy. A nil delegate gives a func(args ...any) any that
// records calls and returns nil. Otherwise the spy takes the delegate's
// signature and forwards to it, returning or panicking exactly as it does.
func NewSpy(delegate any, opts ...Option) *Double {
	cfg := newConfig(opts)

	if delegate == nil {
		return newDouble(KindSpy, looseSignature, cfg)
	}

	panicIfNotFunc(delegate)

	reflected := reflect.ValueOf(delegate)
	d := newDouble(KindSpy, reflected.Type(), cfg)
	d.plan = plan{behavior: behaveDelegate, delegate: reflected}

	return d
}

// NewStub creates a func(args ...any) any stub that returns nil until configured.
func NewStub(opts ...Option) *Double {
	return newDouble(KindStub, looseSignature, newConfig(opts))
}

// NewStubFor creates a stub with the signature of the given func value,
// which may be a typed nil such as (func(int) error)(nil).
func NewStubFor(signature any, opts ...Option) *Double {
	fnType := reflect.TypeOf(signature)
	if fnType == nil || fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("must pass a function signature. received a %s instead.", getTypeName(fnType)))
	}

	return newDouble(KindStub, fnType, newConfig(opts))
}

// As returns the double's callable as the concrete func type F.
func As[F any](d *Double) F {
	fn, ok := d.Func().(F)
	if !ok {
		panic(fmt.Sprintf("%s has type %s, not %s", d, d.fnType, reflect.TypeFor[F]()))
	}

	return fn
}

// AlwaysCalledWith reports whether the double was called and every call matched.
func (d *Double) AlwaysCalledWith(matchers ...any) bool {
	calls := d.Calls()
	if len(calls) == 0 {
		return false
	}

	for _, call := range calls {
		if matchArgs(call.Args, matchers) != nil {
			return false
		}
	}

	return true
}

// Call invokes the double with loosely typed arguments and returns its results.
// Panics propagate, as they do through the typed callable.
func (d *Double) Call(args ...any) []any {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = argValue(d.fnType, i, arg)
	}

	return valuesToAny(d.fn.Call(in))
}

// CallCount returns the number of recorded calls.
func (d *Double) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.calls)
}

// Called reports whether the double was called at all.
func (d *Double) Called() bool { return d.CallCount() > 0 }

// CalledOnce reports whether the double was called exactly once.
func (d *Double) CalledOnce() bool { return d.CallCount() == 1 }

// CalledThrice reports whether the double was called exactly three times.
func (d *Double) CalledThrice() bool { return d.CallCount() == 3 }

// CalledTwice reports whether the double was called exactly twice.
func (d *Double) CalledTwice() bool { return d.CallCount() == 2 }

// CalledWith reports whether any call's arguments satisfy the matchers.
// Literals compare by deep equality; arguments past the last matcher are ignored.
func (d *Double) CalledWith(matchers ...any) bool {
	for _, call := range d.Calls() {
		if matchArgs(call.Args, matchers) == nil {
			return true
		}
	}

	return false
}

// Calls returns a copy of the call history.
func (d *Double) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	calls := make([]Call, len(d.calls))
	for i, call := range d.calls {
		calls[i] = call.clone()
	}

	return calls
}

// CallsThrough makes the double forward to fn, which must have the double's signature.
func (d *Double) CallsThrough(fn any) *Double {
	panicIfNotFunc(fn)

	reflected := reflect.ValueOf(fn)
	if reflected.Type() != d.fnType {
		panic(fmt.Sprintf("%s needs a delegate of type %s, got %s", d, d.fnType, reflected.Type()))
	}

	d.configure(plan{behavior: behaveDelegate, delegate: reflected})

	return d
}

// FirstCall returns the first recorded call.
func (d *Double) FirstCall() (Call, error) { return d.NthCall(0) }

// Func returns the typed callable for the double.
func (d *Double) Func() any { return d.fn.Interface() }

// ID returns the identity assigned at creation.
func (d *Double) ID() uint64 { return d.id }

// Installed reports whether the double currently occupies an object slot.
func (d *Double) Installed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.install != nil
}

// Kind returns whether this is a spy, stub or mock double.
func (d *Double) Kind() Kind { return d.kind }

// LastCall returns the most recent call.
func (d *Double) LastCall() (Call, error) { return d.NthCall(d.CallCount() - 1) }

// Name returns the configured name, or the method name for wrapped doubles.
func (d *Double) Name() string { return d.name }

// NeverCalledWith reports whether no call's arguments satisfy the matchers.
func (d *Double) NeverCalledWith(matchers ...any) bool { return !d.CalledWith(matchers...) }

// NthCall returns the call at zero-based position n.
func (d *Double) NthCall(n int) (Call, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n < 0 || n >= len(d.calls) {
		return Call{}, fmt.Errorf("%w: %s has %d call(s), asked for call %d", ErrNoSuchCall, d, len(d.calls), n)
	}

	return d.calls[n].clone(), nil
}

// Returns makes the double answer every call with values, replacing any earlier behaviour.
// The values must fit the double's results.
func (d *Double) Returns(values ...any) *Double {
	d.configure(plan{behavior: behaveReturn, returns: convertReturns(d.fnType, values)})

	return d
}

func (d *Double) String() string {
	if d.name != "" {
		return fmt.Sprintf("%s %q", d.kind, d.name)
	}

	return fmt.Sprintf("%s#%d", d.kind, d.id)
}

// Throws makes the double fail every call with err, replacing any earlier behaviour.
// Signatures ending in error return it there; any other signature panics with it.
func (d *Double) Throws(err error) *Double {
	if err == nil {
		panic(fmt.Sprintf("%s: Throws needs a non-nil error", d))
	}

	d.configure(plan{behavior: behaveThrow, err: err})

	return d
}

func (d *Double) configure(p plan) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.plan = p
}

func (d *Double) invoke(in []reflect.Value) []reflect.Value {
	args := argsToAny(d.fnType, in)
	current, index := d.begin(args)

	out, recovered, panicked := capture(func() []reflect.Value {
		return current.run(d.fnType, in)
	})

	record := Call{Index: index, Args: args, Receiver: d.receiver}
	if panicked {
		record.Panic = recovered
	} else {
		record.Returns = valuesToAny(out)
		record.Err = trailingError(d.fnType, out)
	}

	d.finish(record)

	d.logger.Debug("double invoked",
		slog.String("double", d.String()),
		slog.Int("call", index),
		slog.Int("args", len(args)),
		slog.Bool("threw", record.Threw()),
	)

	if panicked {
		panic(recovered)
	}

	return out
}

// planFor picks the behaviour for a call. The caller holds d.mu.
func (d *Double) planFor(args []any) plan {
	for _, exp := range d.expectations {
		if !exp.answers(args, d.calls) {
			continue
		}

		if exp.response != nil {
			return *exp.response
		}

		break
	}

	return d.plan
}

// begin picks the behaviour for a call and reserves its history index under
// one lock. An expectation's last allowed call goes to exactly one caller.
func (d *Double) begin(args []any) (plan, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.planFor(args)
	index := len(d.calls)
	d.calls = append(d.calls, Call{Index: index, Args: args, Receiver: d.receiver})

	return current, index
}

// finish fills in the outcome of the call begin reserved.
func (d *Double) finish(call Call) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls[call.Index] = call
}

type behavior int

const (
	behaveNone behavior = iota
	behaveReturn
	behaveThrow
	behaveDelegate
)

type installation struct {
	slot     slot
	original reflect.Value
}

// plan is one configured behaviour.
type plan struct {
	behavior behavior
	returns  []reflect.Value
	err      error
	delegate reflect.Value
}

func (p plan) run(fnType reflect.Type, in []reflect.Value) []reflect.Value {
	switch p.behavior {
	case behaveReturn:
		return slices.Clone(p.returns)
	case behaveThrow:
		if !returnsError(fnType) {
			panic(p.err)
		}

		out := zeroResults(fnType)
		errValue := reflect.New(errorType).Elem()
		errValue.Set(reflect.ValueOf(p.err))
		out[len(out)-1] = errValue

		return out
	case behaveDelegate:
		if fnType.IsVariadic() {
			return p.delegate.CallSlice(in)
		}

		return p.delegate.Call(in)
	case behaveNone:
		return zeroResults(fnType)
	default:
		panic(fmt.Sprintf("unknown behavior %d", p.behavior))
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // creation counter backing Double.ID
	nextID atomic.Uint64
)

// capture runs fn and recovers any panic it raises.
func capture(fn func() []reflect.Value) (out []reflect.Value, recovered any, panicked bool) {
	panicked = true

	defer func() {
		if panicked {
			recovered = recover()
		}
	}()

	out = fn()
	panicked = false

	return out, nil, false
}

func newDouble(kind Kind, fnType reflect.Type, cfg config) *Double {
	d := &Double{
		id:     nextID.Add(1),
		name:   cfg.name,
		kind:   kind,
		logger: cfg.logger,
		fnType: fnType,
	}
	d.fn = reflect.MakeFunc(fnType, d.invoke)

	return d
}

func returnsError(fnType reflect.Type) bool {
	numOut := fnType.NumOut()

	return numOut > 0 && fnType.Out(numOut-1) == errorType
}

func trailingError(fnType reflect.Type, out []reflect.Value) error {
	if !returnsError(fnType) {
		return nil
	}

	err, _ := out[len(out)-1].Interface().(error)

	return err
}
