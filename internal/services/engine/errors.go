package engine

import "fmt"

// InvalidInputError reports a snapshot field whose value is outside the
// domain the engine can score. Field names the offending field, Reason says
// what was wrong with it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func invalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
