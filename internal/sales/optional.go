package sales

import "encoding/json"

// Optional distinguishes a JSON field that was omitted from one explicitly
// set to null. Set reports presence in the payload; Valid reports a non-null
// value. Patch merging needs all three states: omitted keeps the current
// value, null clears it, a value assigns it.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some wraps a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null is a present, explicitly null value.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked for fields present in the payload, so Set is
// true whenever it runs.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when null or omitted.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
