package types

import "encoding/json"

// Optional records whether a JSON field was present at all, and its value if not null.
// Partial updates use it to tell "leave unchanged" apart from "clear".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Present reports a field that was sent with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && o.Value != nil
}

// Get returns the value or the zero value.
func (o Optional[T]) Get() T {
	if o.Value == nil {
		var zero T
		return zero
	}
	return *o.Value
}
