package ipld

import "fmt"

// Field lowers the value stored under key in map m. A missing key lowers
// as null, so it only succeeds for T = struct{}. Errors name the key and
// still unwrap to *TypeError.
func Field[T Native](m *Value, key string) (T, error) {
	entries, err := m.AsMap()
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := Lower[T](entries[key])
	if err != nil {
		return out, fmt.Errorf("field %q: %w", key, err)
	}
	return out, nil
}

// OptField is Field for optional fields: a missing key or null yields nil.
func OptField[T Native](m *Value, key string) (*T, error) {
	entries, err := m.AsMap()
	if err != nil {
		return nil, err
	}
	out, err := LowerOptional[T](entries[key])
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return out, nil
}

// ListOf lowers every element of a list into T. It stops at the first
// element that does not convert.
func ListOf[T Native](v *Value) ([]T, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		if out[i], err = Lower[T](e); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	return out, nil
}
