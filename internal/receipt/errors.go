package receipt

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every OutOfRangeError via errors.Is.
var ErrOutOfRange = errors.New("line out of range")

// OutOfRangeError reports a line lookup past the end of a Document.
type OutOfRangeError struct {
	Index int // requested line
	Lines int // number of lines in the document
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("line %d does not exist (document has %d lines)", e.Index, e.Lines)
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// FieldExtractionError names the field whose rule could not be applied.
type FieldExtractionError struct {
	Field string
	Line  int
	Err   error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("extracting %s from line %d: %v", e.Field, e.Line, e.Err)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Err
}
