package confreader

// Reserved is a parameter that is part of the extracted set but is not read
// from the configuration yet. It never holds a value, which keeps "not
// implemented" distinct from "extracted and empty".
type Reserved[T any] struct{}

func (Reserved[T]) Get() (T, bool) {
	var zero T
	return zero, false
}

func (Reserved[T]) Implemented() bool {
	return false
}

func (Reserved[T]) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (Reserved[T]) MarshalYAML() (interface{}, error) {
	return nil, nil
}

// implementer is satisfied by every Reserved instantiation.
type implementer interface {
	Implemented() bool
}

// IsReserved reports whether v is a Reserved placeholder.
func IsReserved(v any) bool {
	r, ok := v.(implementer)
	return ok && !r.Implemented()
}
