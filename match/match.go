// Package match provides matchers for standin's WithArgs, CalledWith and AssertCalledWith.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/standin/match"
//	)
//
//	exp.WithArgs(Subset(map[string]any{"Name": "Mike"}), BeNumerically(">", 0))
package match

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// Equal returns a matcher comparing by reflect.DeepEqual. Plain values passed
// where a matcher is expected already compare this way; Equal names the intent.
func Equal(expected any) Matcher {
	return equalMatcher{expected: expected}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	exp.WithArgs(Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// Subset returns a matcher for values containing at least the given
// key/value pairs. Maps with string keys are checked by entry, structs by
// exported field name; pointers are followed. Expected values may themselves
// be matchers.
//
// Example:
//
//	spy.CalledWith(Subset(map[string]any{"FirstName": "Mike"}))
func Subset(fields map[string]any) Matcher {
	return &subsetMatcher{fields: fields}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) String() string { return "<any>" }

type equalMatcher struct {
	expected any
}

func (m equalMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v, got %#v", m.expected, actual)
}

func (m equalMatcher) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

func (m equalMatcher) String() string { return fmt.Sprintf("%#v", m.expected) }

// satisfyMatcher holds no per-call state, so one value may be shared across goroutines.
type satisfyMatcher[T any] struct {
	predicate func(T) error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	val, ok := actual.(T)
	if !ok {
		return fmt.Sprintf("value %v is not a %T", actual, *new(T))
	}

	if err := m.predicate(val); err != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	return m.predicate(val) == nil, nil
}

// subsetMatcher holds no per-call state, so one value may be shared across goroutines.
type subsetMatcher struct {
	fields map[string]any
}

func (m *subsetMatcher) FailureMessage(actual any) string {
	mismatches, err := m.mismatches(actual)
	if err != nil {
		return err.Error()
	}

	return fmt.Sprintf("value %#v does not contain %s: %s", actual, m, strings.Join(mismatches, "; "))
}

func (m *subsetMatcher) Match(actual any) (bool, error) {
	mismatches, err := m.mismatches(actual)
	if err != nil {
		return false, err
	}

	return len(mismatches) == 0, nil
}

// mismatches describes every expected field actual lacks or disagrees with, in key order.
func (m *subsetMatcher) mismatches(actual any) ([]string, error) {
	value := reflect.ValueOf(actual)
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, fmt.Errorf("%w: expected a map or struct, got nil %T", errTypeMismatch, actual)
		}

		value = value.Elem()
	}

	var lookup func(key string) (reflect.Value, bool)

	switch {
	case value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String:
		lookup = func(key string) (reflect.Value, bool) {
			entry := value.MapIndex(reflect.ValueOf(key).Convert(value.Type().Key()))
			return entry, entry.IsValid()
		}
	case value.Kind() == reflect.Struct:
		lookup = func(key string) (reflect.Value, bool) {
			field := value.FieldByName(key)
			return field, field.IsValid() && field.CanInterface()
		}
	default:
		return nil, fmt.Errorf("%w: expected a map or struct, got %T", errTypeMismatch, actual)
	}

	var mismatches []string

	for _, key := range slices.Sorted(maps.Keys(m.fields)) {
		got, ok := lookup(key)
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s is missing", key))

			continue
		}

		mismatch := compare(got.Interface(), m.fields[key])
		if mismatch != "" {
			mismatches = append(mismatches, fmt.Sprintf("%s: %s", key, mismatch))
		}
	}

	return mismatches, nil
}

func (m *subsetMatcher) String() string {
	parts := make([]string, 0, len(m.fields))
	for _, key := range slices.Sorted(maps.Keys(m.fields)) {
		parts = append(parts, fmt.Sprintf("%s: %#v", key, m.fields[key]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// compare returns "" when got satisfies expected, or a description of the mismatch.
func compare(got, expected any) string {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(got)
		if err != nil {
			return err.Error()
		}

		if !success {
			return matcher.FailureMessage(got)
		}

		return ""
	}

	if reflect.DeepEqual(got, expected) {
		return ""
	}

	return fmt.Sprintf("expected %#v, got %#v", expected, got)
}
