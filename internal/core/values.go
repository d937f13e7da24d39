package core

// This file provides the reflection helpers shared by doubles, slots and matchers.

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// unexported variables.
var (
	//nolint:gochecknoglobals // type constant
	errorType = reflect.TypeFor[error]()
	//nolint:gochecknoglobals // type constant
	looseSignature = reflect.TypeFor[func(args ...any) any]()
)

// argsToAny converts the inputs a double received into positional arguments,
// flattening a variadic tail.
func argsToAny(fnType reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))

	for index, value := range in {
		if fnType.IsVariadic() && index == len(in)-1 {
			for i := range value.Len() {
				args = append(args, value.Index(i).Interface())
			}

			continue
		}

		args = append(args, value.Interface())
	}

	return args
}

// argValue converts a loosely typed argument into the value a double of
// fnType expects at the given position.
func argValue(fnType reflect.Type, index int, arg any) reflect.Value {
	numIn := fnType.NumIn()

	var paramType reflect.Type

	switch {
	case fnType.IsVariadic() && index >= numIn-1:
		paramType = fnType.In(numIn - 1).Elem()
	case index < numIn:
		paramType = fnType.In(index)
	default:
		panic(fmt.Sprintf("Too many args passed. The func (%s) only takes %d args,"+
			" but at least %d were passed",
			fnType, numIn, index+1,
		))
	}

	value, ok := assignable(paramType, arg)
	if !ok {
		panic(fmt.Sprintf("Wrong arg type. The arg type at index %d for func (%s) is %s,"+
			" but a value of type %s was passed",
			index, fnType, getTypeName(paramType), getTypeName(reflect.TypeOf(arg)),
		))
	}

	return value
}

// assignable returns value as a reflect.Value of exactly type target.
// Untyped nil becomes the zero value of nillable kinds, and numeric values
// convert between numeric kinds.
func assignable(target reflect.Type, value any) (reflect.Value, bool) {
	if value == nil {
		if isNillableKind(target.Kind()) {
			return reflect.Zero(target), true
		}

		return reflect.Value{}, false
	}

	reflected := reflect.ValueOf(value)
	out := reflect.New(target).Elem()

	if reflected.Type().AssignableTo(target) {
		out.Set(reflected)

		return out, true
	}

	if isNumericKind(reflected.Kind()) && isNumericKind(target.Kind()) {
		out.Set(reflected.Convert(target))

		return out, true
	}

	return reflect.Value{}, false
}

// convertReturns validates values against the results of fnType and converts them.
func convertReturns(fnType reflect.Type, values []any) []reflect.Value {
	numOut := fnType.NumOut()

	if len(values) < numOut {
		panic(fmt.Sprintf("Too few returns passed. The func (%s) returns %d values,"+
			" but only %d were passed",
			fnType, numOut, len(values),
		))
	} else if numOut < len(values) {
		panic(fmt.Sprintf("Too many returns passed. The func (%s) only returns %d values,"+
			" but %d were passed",
			fnType, numOut, len(values),
		))
	}

	out := make([]reflect.Value, numOut)

	for index, value := range values {
		converted, ok := assignable(fnType.Out(index), value)
		if !ok {
			panic(fmt.Sprintf("Wrong return type. The return type at index %d for func (%s) is %s,"+
				" but a value of type %s was passed",
				index, fnType, getTypeName(fnType.Out(index)), getTypeName(reflect.TypeOf(value)),
			))
		}

		out[index] = converted
	}

	return out
}

// deepEqual checks whether two values are deeply equal.
// deepEqual calls functions equal if their names are equal.
// For everything else it depends on reflect.DeepEqual.
func deepEqual(actual, expected any) bool {
	// handle, for instance, nil == (*int)nil
	if isNil(actual) && isNil(expected) {
		return true
	}

	if actual != nil && expected != nil &&
		reflect.TypeOf(actual).Kind() == reflect.Func &&
		reflect.TypeOf(expected).Kind() == reflect.Func {
		return funcName(actual) == funcName(expected)
	}

	return reflect.DeepEqual(actual, expected)
}

// funcName gets the function's name.
func funcName(f any) string {
	name := runtime.FuncForPC(uintptr(reflect.ValueOf(f).UnsafePointer())).Name()
	// this suffix gets appended to method values.
	return strings.TrimSuffix(name, "-fm")
}

// getTypeName gets the type's name, if it has one. If it does not have one, getTypeName
// will return the type's string.
func getTypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

// isNil returns whether the value is nil.
func isNil(value any) bool { return isUntypedNil(value) || isTypedNil(value) }

// isNillableKind returns true if the kind passed is nillable.
// According to https://pkg.go.dev/reflect#Value.IsNil, this is the case for
// chan, func, interface, map, pointer, or slice kinds.
func isNillableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isTypedNil returns whether the value is a typed nil.
func isTypedNil(value any) bool {
	reflectedValue := reflect.ValueOf(value)
	return isNillableKind(reflectedValue.Kind()) && reflectedValue.IsNil()
}

// isUntypedNil returns whether the value is an untyped nil.
func isUntypedNil(value any) bool { return !reflect.ValueOf(value).IsValid() }

// panicIfNotFunc panics if the given object is not a non-nil function.
func panicIfNotFunc(value any) {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() != reflect.Func {
		panic(fmt.Sprintf("must pass a function. received a %s instead.",
			reflected.Kind().String(),
		))
	}

	if reflected.IsNil() {
		panic("must pass a function. received a nil " + reflected.Type().String() + " instead.")
	}
}

// valuesToAny unwraps reflected results.
func valuesToAny(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value.Interface()
	}

	return out
}

// zeroResults returns zero values for every result of fnType.
func zeroResults(fnType reflect.Type) []reflect.Value {
	out := make([]reflect.Value, fnType.NumOut())
	for i := range out {
		out[i] = reflect.Zero(fnType.Out(i))
	}

	return out
}
