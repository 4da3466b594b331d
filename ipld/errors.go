package ipld

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is the sentinel wrapped by every *TypeError.
var ErrTypeMismatch = errors.New("ipld: type mismatch")

// TypeError reports that a value of kind Found was lowered into a type
// expecting kind Expected. It records kinds only, never the payload.
type TypeError struct {
	Expected Kind `json:"expected"`
	Found    Kind `json:"found"`
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("ipld: type mismatch: expected %s, found %s", e.Expected, e.Found)
}

func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// FoundValue reconstructs a representative value of the found kind.
func (e *TypeError) FoundValue() *Value {
	return e.Found.Zero()
}

func mismatch(expected Kind, found *Value) *TypeError {
	return &TypeError{Expected: expected, Found: KindOf(found)}
}
