package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/datalad/datalad-core/internal/constraints"
)

// ConfigurationError reports an invalid processor or command declaration.
// It is raised at declaration time, never during parameter processing.
type ConfigurationError struct {
	Message string
}

// NewConfigurationError creates a ConfigurationError; the message is
// formatted with fmt.Sprintf.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string { return e.Message }

// IsConfigurationError reports whether err is (or wraps) a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ParamViolation is one parameter's constraint failure within a joint
// processing run. An empty Name marks a paramset constraint's failure.
type ParamViolation struct {
	Name string
	Err  *constraints.ConstraintError
}

// ParamErrors aggregates the constraint violations of one Process call.
// Violations appear in processing order.
type ParamErrors struct {
	violations []ParamViolation
}

// NewParamErrors bundles the given violations into one error.
func NewParamErrors(violations ...ParamViolation) *ParamErrors {
	return &ParamErrors{violations: violations}
}

func (e *ParamErrors) Error() string {
	if len(e.violations) == 1 {
		return e.render(e.violations[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d parameter constraint violations", len(e.violations))
	for _, v := range e.violations {
		b.WriteString("\n  - ")
		b.WriteString(e.render(v))
	}
	return b.String()
}

func (e *ParamErrors) render(v ParamViolation) string {
	if v.Name == "" {
		return v.Err.Error()
	}
	return fmt.Sprintf("%s: %s", v.Name, v.Err.Error())
}

// Violations returns the individual failures in processing order.
func (e *ParamErrors) Violations() []ParamViolation {
	return e.violations
}

// Unwrap exposes the underlying constraint errors to errors.As traversal.
func (e *ParamErrors) Unwrap() []error {
	errs := make([]error, len(e.violations))
	for i, v := range e.violations {
		errs[i] = v.Err
	}
	return errs
}

// IsParamErrors reports whether err is (or wraps) a ParamErrors.
func IsParamErrors(err error) bool {
	var pe *ParamErrors
	return errors.As(err, &pe)
}
