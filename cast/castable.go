// Package cast provides the plain-old-data certification registry and the
// raw conversion primitives that reinterpret typed values as bytes and back.
//
// A type is "castable" when its bit-level representation is fully defined:
// it is inhabited, accepts every bit pattern, has a fixed layout and no
// padding bytes, and every field is itself castable. Fixed-size numeric
// types and arrays of castable types are castable by built-in declaration.
// Struct types are verified mechanically by Derive, or vouched for manually
// with Register when the engineer takes responsibility for the promise.
package cast

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// verdicts memoizes the certification outcome per reflect.Type.
// A nil value means certified; a non-nil value is the derivation error.
var verdicts sync.Map

// Register certifies T unconditionally. This is the manual escape hatch for
// types the mechanical derivation rejects (for example a struct holding a
// bool field whose producer guarantees only 0/1 values ever appear). The
// caller takes responsibility for the castability promise; no checks run.
func Register[T any]() {
	verdicts.Store(reflect.TypeFor[T](), error(nil))
}

// Derive mechanically verifies that T is castable and certifies it on
// success. It re-checks the castability rules the same way a build-time
// derivation would: T must have a fixed-size representation, must not be a
// parameterized type, must contain no padding bytes, and every field must
// itself be castable. Each violated rule yields a fixed diagnostic.
func Derive[T any]() error {
	return certify(reflect.TypeFor[T]())
}

// MustDerive is Derive except that it panics on rejection. Call it from
// package init so an uncastable type surfaces at program start rather than
// at first access.
func MustDerive[T any]() {
	if err := Derive[T](); err != nil {
		panic(err)
	}
}

// Certified reports whether T is castable, deriving it first if it has not
// been seen before.
func Certified[T any]() bool {
	return certify(reflect.TypeFor[T]()) == nil
}

// assertCastable is the gate used by the conversion primitives and the
// typed buffer accessors. Failing it is a programming error, not a
// data-dependent condition, so it panics with the derivation diagnostic.
func assertCastable[T any]() {
	if err := certify(reflect.TypeFor[T]()); err != nil {
		panic(err)
	}
}

func certify(t reflect.Type) error {
	if v, ok := verdicts.Load(t); ok {
		if v == nil {
			return nil
		}
		return v.(error)
	}
	err := derive(t)
	verdicts.Store(t, err)
	return err
}

func derive(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		if err := certify(t.Elem()); err != nil {
			return fmt.Errorf("castable requires every element to be castable: %s: %w", t, err)
		}
		return nil
	case reflect.Struct:
		if strings.ContainsRune(t.Name(), '[') {
			return fmt.Errorf("castable cannot be derived for parameterized types: %s", t)
		}
		var fieldSum uintptr
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := certify(f.Type); err != nil {
				return fmt.Errorf("castable requires every field to be castable: %s.%s: %w", t, f.Name, err)
			}
			fieldSum += f.Type.Size()
		}
		if fieldSum != t.Size() {
			return fmt.Errorf("castable requires a type without padding bytes: %s carries %d padding byte(s)", t, t.Size()-fieldSum)
		}
		return nil
	default:
		return fmt.Errorf("castable requires a fixed bit-pattern representation: %s is a %s", t, t.Kind())
	}
}
