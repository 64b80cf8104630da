package constraints

import "errors"

// WithDescription wraps another constraint and replaces its
// self-description. Whenever a constraint's own synopsis or description does
// not fit an application context, it can be wrapped with this type. The
// wrapped constraint performs all actual processing.
type WithDescription struct {
	constraint   Constraint
	synopsis     string
	description  string
	errorMessage string
}

// DescriptionOption customizes a WithDescription wrapper.
type DescriptionOption func(*WithDescription)

// Synopsis replaces the wrapped constraint's synopsis.
func Synopsis(s string) DescriptionOption {
	return func(w *WithDescription) { w.synopsis = s }
}

// Description replaces the wrapped constraint's description.
func Description(d string) DescriptionOption {
	return func(w *WithDescription) { w.description = d }
}

// ErrorMessage replaces the message of any ConstraintError raised by the
// wrapped constraint. Only the message is replaced; the offending value and
// aggregated causes are kept.
func ErrorMessage(m string) DescriptionOption {
	return func(w *WithDescription) { w.errorMessage = m }
}

// NewWithDescription wraps c, overriding its self-description per the given
// options.
func NewWithDescription(c Constraint, opts ...DescriptionOption) *WithDescription {
	w := &WithDescription{constraint: c}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Constraint returns the wrapped constraint.
func (w *WithDescription) Constraint() Constraint {
	return w.constraint
}

func (w *WithDescription) Validate(value any) (any, error) {
	v, err := w.constraint.Validate(value)
	if err == nil {
		return v, nil
	}
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		return nil, err
	}
	// rewrap so the wrapper is reported as the violated constraint and
	// the replacement message takes effect
	msg := ce.Message
	if w.errorMessage != "" {
		msg = w.errorMessage
	}
	return nil, NewAggregateConstraintError(w, ce.Value, msg, ce.Causes())
}

// ForDataset tailors the wrapped constraint and wraps the result again, so
// the replacement description survives tailoring.
func (w *WithDescription) ForDataset(ds DatasetContext) Constraint {
	tailored := TailorForDataset(w.constraint, ds)
	if tailored == w.constraint {
		return w
	}
	return &WithDescription{
		constraint:   tailored,
		synopsis:     w.synopsis,
		description:  w.description,
		errorMessage: w.errorMessage,
	}
}

func (w *WithDescription) Synopsis() string {
	if w.synopsis != "" {
		return w.synopsis
	}
	return w.constraint.Synopsis()
}

func (w *WithDescription) Description() string {
	if w.description != "" {
		return w.description
	}
	if w.synopsis != "" {
		return w.synopsis
	}
	return w.constraint.Description()
}
