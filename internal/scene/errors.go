package scene

import (
	"errors"
	"fmt"
)

// ErrUserInput matches every error reported for malformed creation calls.
var ErrUserInput = errors.New("invalid drawing input")

var (
	ErrTooFewPoints    = errors.New("too few points")
	ErrTooFewSides     = errors.New("too few sides")
	ErrTooManySides    = errors.New("too many sides")
	ErrInvalidArcType  = errors.New("invalid arc type")
	ErrNoTextTarget    = errors.New("more text must immediately follow text")
	ErrNotObject       = errors.New("not a scene object")
	ErrNotTopLevel     = errors.New("object is already in a group or belongs to another drawing")
	ErrGroupCycle      = errors.New("a group cannot contain itself or an enclosing group")
	ErrEmptyPath       = errors.New("a path must contain at least one path element")
	ErrDuplicateResult = errors.New("filter primitive result already used in this filter")
	ErrNoImageLoader   = errors.New("image embedding is not available")
)

// InputError is a non-fatal problem with one creation call. The call that
// produced it returned no object and left the drawing unchanged.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrUserInput and the specific cause to errors.Is.
func (e *InputError) Unwrap() []error {
	return []error{ErrUserInput, e.Err}
}
