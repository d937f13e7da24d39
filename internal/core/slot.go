package core

import (
	"fmt"
	"reflect"
	"unsafe"
)

// slot is a named place on an object that holds a func value.
type slot interface {
	load() reflect.Value
	store(value reflect.Value)
	key() slotKey
	String() string
}

// slotKey identifies a slot by the address of the storage behind it.
type slotKey struct {
	ptr  unsafe.Pointer
	name string
}

// fieldSlot is a func-typed field of a struct reached through a pointer.
type fieldSlot struct {
	owner reflect.Type
	name  string
	field reflect.Value
}

func (s fieldSlot) String() string { return fmt.Sprintf("%s.%s", s.owner, s.name) }

func (s fieldSlot) key() slotKey {
	return slotKey{ptr: s.field.Addr().UnsafePointer(), name: s.name}
}

// load copies the field so the result does not follow later stores.
// Fields of interface type yield the func they hold, as map entries do.
func (s fieldSlot) load() reflect.Value {
	value := reflect.New(s.field.Type()).Elem()
	value.Set(s.field)

	if value.Kind() == reflect.Interface {
		value = value.Elem()
	}

	return value
}

func (s fieldSlot) store(value reflect.Value) { s.field.Set(value) }

// mapSlot is an entry of a string-keyed map holding a func.
type mapSlot struct {
	owner reflect.Value
	name  string
	index reflect.Value
}

func (s mapSlot) String() string { return fmt.Sprintf("%s[%q]", s.owner.Type(), s.name) }

func (s mapSlot) key() slotKey {
	return slotKey{ptr: s.owner.UnsafePointer(), name: s.name}
}

func (s mapSlot) load() reflect.Value {
	value := s.owner.MapIndex(s.index)
	if value.Kind() == reflect.Interface {
		value = value.Elem()
	}

	return value
}

func (s mapSlot) store(value reflect.Value) {
	s.owner.SetMapIndex(s.index, value)
}

// resolveSlot finds the func slot named name on target. Targets are pointers
// to structs with an exported func field, or maps with string keys.
func resolveSlot(target any, name string) (slot, error) {
	reflected := reflect.ValueOf(target)

	var resolved slot

	switch {
	case reflected.Kind() == reflect.Pointer && !reflected.IsNil() && reflected.Elem().Kind() == reflect.Struct:
		field := reflected.Elem().FieldByName(name)
		if !field.IsValid() {
			return nil, fmt.Errorf("%w: %T has no field %q", ErrTarget, target, name)
		}

		if !field.CanSet() {
			return nil, fmt.Errorf("%w: field %q of %T cannot be set", ErrTarget, name, target)
		}

		resolved = fieldSlot{owner: reflected.Type(), name: name, field: field}
	case reflected.Kind() == reflect.Map && reflected.Type().Key().Kind() == reflect.String:
		if reflected.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrTarget, target)
		}

		index := reflect.ValueOf(name).Convert(reflected.Type().Key())
		if !reflected.MapIndex(index).IsValid() {
			return nil, fmt.Errorf("%w: %T has no entry %q", ErrTarget, target, name)
		}

		resolved = mapSlot{owner: reflected, name: name, index: index}
	default:
		return nil, fmt.Errorf("%w: %T is neither a struct pointer nor a string-keyed map", ErrTarget, target)
	}

	current := resolved.load()
	if current.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s holds a %s, not a func", ErrTarget, resolved, current.Kind())
	}

	if current.IsNil() {
		return nil, fmt.Errorf("%w: %s holds a nil func", ErrTarget, resolved)
	}

	return resolved, nil
}
