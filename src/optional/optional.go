// Package optional models wire fields that can be absent, explicitly null,
// or carry a value.
//
// A Field decoded with encoding/json stays Unset when its key is missing from
// the document, because the decoder never visits it.
package optional

import (
	"bytes"
	"encoding/json"
)

type State uint8

const (
	Unset State = iota
	Null
	Set
)

func (s State) String() string {
	switch s {
	case Null:
		return "null"
	case Set:
		return "set"
	default:
		return "unset"
	}
}

type Field[T any] struct {
	state State
	value T
}

func Of[T any](v T) Field[T] {
	return Field[T]{state: Set, value: v}
}

func NullOf[T any]() Field[T] {
	return Field[T]{state: Null}
}

// FromPtr returns Null for a nil pointer and Set otherwise.
func FromPtr[T any](v *T) Field[T] {
	if v == nil {
		return NullOf[T]()
	}
	return Of(*v)
}

func (f Field[T]) State() State { return f.state }
func (f Field[T]) IsUnset() bool { return f.state == Unset }
func (f Field[T]) IsNull() bool { return f.state == Null }
func (f Field[T]) IsSet() bool { return f.state == Set }

// Present reports whether the key was in the document, null or not.
func (f Field[T]) Present() bool { return f.state != Unset }

func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == Set
}

func (f Field[T]) OrElse(def T) T {
	if f.state == Set {
		return f.value
	}
	return def
}

// Ptr returns nil unless the field is Set.
func (f Field[T]) Ptr() *T {
	if f.state != Set {
		return nil
	}
	v := f.value
	return &v
}

// Coalesce assigns def when the field holds no value.
func (f *Field[T]) Coalesce(def Field[T]) {
	if f.state != Set {
		*f = def
	}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.state, f.value = Null, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.state, f.value = Set, v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// Equal treats Unset and Null as distinct states.
func Equal[T comparable](a, b Field[T]) bool {
	if a.state != b.state {
		return false
	}
	return a.state != Set || a.value == b.value
}
