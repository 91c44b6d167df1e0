package types

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Nullable tracks whether a field was explicitly present in JSON, and whether
// it was present as null. Valid is false when the key was omitted.
type Nullable[T any] struct {
	Valid bool
	Value *T
}

// Set builds a present, non-null value.
func Set[T any](v T) Nullable[T] {
	return Nullable[T]{Valid: true, Value: &v}
}

// Null builds a present null value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// ElemType reports T, letting reflection-driven decoders look through the wrapper.
func (Nullable[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Interface returns the wrapped value, or nil when absent or null.
func (n Nullable[T]) Interface() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}
