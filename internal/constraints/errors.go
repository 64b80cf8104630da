package constraints

import (
	"errors"
	"fmt"
	"strings"
)

// ConstraintError reports a single value failing one constraint.
//
// It carries the violated constraint, the offending value, and a
// human-readable reason. Composite constraints (AnyOf) aggregate the errors
// of their alternatives via Causes rather than discarding them.
type ConstraintError struct {
	// Constraint is the constraint instance that determined the violation.
	Constraint Constraint

	// Value is the value that violated the constraint.
	Value any

	// Message describes the violation.
	Message string

	causes []error
}

// NewConstraintError creates a ConstraintError for the given constraint and
// value. The message is formatted with fmt.Sprintf.
func NewConstraintError(c Constraint, value any, format string, args ...any) *ConstraintError {
	return &ConstraintError{
		Constraint: c,
		Value:      value,
		Message:    fmt.Sprintf(format, args...),
	}
}

// NewAggregateConstraintError creates a ConstraintError bundling the errors
// of several attempted constraints, in the order they were attempted.
func NewAggregateConstraintError(c Constraint, value any, msg string, causes []error) *ConstraintError {
	return &ConstraintError{
		Constraint: c,
		Value:      value,
		Message:    msg,
		causes:     causes,
	}
}

func (e *ConstraintError) Error() string {
	if len(e.causes) == 0 {
		return e.Message
	}
	var b strings.Builder
	b.WriteString(e.Message)
	for _, c := range e.causes {
		// itemize nested causes with a uniform indent
		for i, line := range strings.Split(c.Error(), "\n") {
			if i == 0 {
				b.WriteString("\n  - ")
			} else {
				b.WriteString("\n    ")
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

// Causes returns the underlying errors that led to this one, in declared
// order. It is nil for non-aggregated errors.
func (e *ConstraintError) Causes() []error {
	return e.causes
}

// Unwrap exposes the causes to errors.Is/errors.As traversal.
func (e *ConstraintError) Unwrap() []error {
	return e.causes
}

// IsConstraintError reports whether err is (or wraps) a ConstraintError.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
