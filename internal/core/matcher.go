package core

import (
	"fmt"
	"strings"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses deepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if deepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}

// matchArgs checks recorded arguments against positional matchers.
// Arguments beyond the last matcher are not inspected.
func matchArgs(args, matchers []any) error {
	if len(args) < len(matchers) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("expected at least %d args, got %d", len(matchers), len(args))
	}

	for index, m := range matchers {
		ok, failureMsg := MatchValue(args[index], m)
		if !ok {
			if failureMsg != "" {
				//nolint:err113 // validation error with dynamic context
				return fmt.Errorf("arg %d: %s", index, failureMsg)
			}
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: matcher failed for value %#v", index, args[index])
		}
	}

	return nil
}

// formatValue renders a value or matcher for failure messages.
func formatValue(value any) string {
	switch v := value.(type) {
	case fmt.Stringer:
		if _, isMatcher := value.(Matcher); isMatcher {
			return v.String()
		}
	case Matcher:
		return fmt.Sprintf("<%T>", v)
	}

	return fmt.Sprintf("%#v", value)
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}

	return strings.Join(parts, ", ")
}

func formatCall(name string, args []any) string {
	return name + "(" + formatArgs(args) + ")"
}
