package internal

import (
	"errors"
	"fmt"
)

// MalformedInputError reports a parse failure or a translatable element that
// breaks the document contract. Offset is the byte position in the input.
type MalformedInputError struct {
	Offset  int64
	Message string
	Cause   error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input at byte %d: %s: %v", e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed input at byte %d: %s", e.Offset, e.Message)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// TranslationError indicates that no backend produced a candidate.
type TranslationError struct {
	Text  string
	Cause error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed for %q: %v", e.Text, e.Cause)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// IOError wraps failures on the input file or the operator terminal.
type IOError struct {
	Op    string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error: %s: %v", e.Op, e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// Kind names the error class for operator diagnostics.
func Kind(err error) string {
	var malformed *MalformedInputError
	var translation *TranslationError
	var ioErr *IOError
	switch {
	case errors.As(err, &malformed):
		return "MalformedInput"
	case errors.As(err, &translation):
		return "TranslationError"
	case errors.As(err, &ioErr):
		return "IoError"
	default:
		return "Error"
	}
}
