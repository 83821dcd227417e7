package sheetmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports tags that cannot be honoured, including
	// two mappings writing the same cell.
	ErrInvalidConfiguration = errors.New("sheetmap: invalid configuration")
	// ErrAccessDenied reports a tagged unexported field when unexported access is disabled.
	ErrAccessDenied = errors.New("sheetmap: field access denied")
	// ErrIllegalState reports calls made in the wrong lifecycle phase.
	ErrIllegalState = errors.New("sheetmap: illegal state")

	ErrNotGenerated     = fmt.Errorf("%w: workbook not generated, call Generate first", ErrIllegalState)
	ErrWorkbookReleased = fmt.Errorf("%w: workbook already written and released", ErrIllegalState)
)

// Method reference failures. Convert and Supply swallow these; Invoke returns them.
var (
	ErrMalformedMethodRef = errors.New("sheetmap: malformed method reference")
	ErrTypeNotFound       = errors.New("sheetmap: type not found")
	ErrMethodNotFound     = errors.New("sheetmap: method not found")
	ErrMethodSignature    = errors.New("sheetmap: method signature mismatch")
	ErrInvocation         = errors.New("sheetmap: method invocation failed")
)

// ConflictError is returned when two mappings target the same cell.
type ConflictError struct {
	Sheet    string
	Row      int
	Column   int
	Existing interface{}
	Incoming interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("value conflict, check tags: sheet: %s, row: %d, column: %d, value1: %v, value2: %v",
		e.Sheet, e.Row, e.Column, e.Existing, e.Incoming)
}

func (e *ConflictError) Unwrap() error {
	return ErrInvalidConfiguration
}
