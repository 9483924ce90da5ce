// internal/pipeline/errors.go
package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input: too few reads, non-nucleotide
	// characters beyond tolerance. Surfaced before any stage runs.
	ErrValidation = errors.New("invalid input")
	// ErrConfig marks invalid threshold values in the run options.
	ErrConfig = errors.New("invalid configuration")
)

// Error wraps a validation or configuration failure with detail.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func configf(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Msg: fmt.Sprintf(format, args...)}
}
