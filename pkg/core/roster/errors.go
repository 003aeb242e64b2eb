package roster

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every structural input error
var ErrInvalidInput = errors.New("invalid roster input")

// InputError describes a structural problem with roster input that prevents
// compilation or validation
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid roster input: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func inputErrorf(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
