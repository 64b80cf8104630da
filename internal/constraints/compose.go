package constraints

import (
	"fmt"
	"strings"
)

// AllOf is the logical AND of several constraints.
//
// Constraints are evaluated in declared order, and the canonical value
// returned by each is the input of the next (a pipeline, not independent
// checks). The last constraint's output is the overall result. The first
// failure aborts with that constraint's error.
type AllOf struct {
	constraints []Constraint
}

// NewAllOf composes constraints into a pipeline. Nested AllOf composites
// are flattened.
func NewAllOf(cs ...Constraint) *AllOf {
	return &AllOf{constraints: flattenAll(cs)}
}

func flattenAll(cs []Constraint) []Constraint {
	out := make([]Constraint, 0, len(cs))
	for _, c := range cs {
		if a, ok := c.(*AllOf); ok {
			out = append(out, a.constraints...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// Constraints returns the composed constraints in evaluation order.
func (a *AllOf) Constraints() []Constraint {
	return a.constraints
}

// And returns a new AllOf with other appended to the pipeline.
func (a *AllOf) And(other Constraint) *AllOf {
	return NewAllOf(append(append([]Constraint{}, a.constraints...), other)...)
}

func (a *AllOf) Validate(value any) (any, error) {
	var err error
	for _, c := range a.constraints {
		value, err = c.Validate(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (a *AllOf) Synopsis() string {
	return joinDescriptions(a.constraints, "and", Constraint.Synopsis)
}

func (a *AllOf) Description() string {
	return joinDescriptions(a.constraints, "and", Constraint.Description)
}

// AnyOf is the logical OR of several constraints.
//
// Constraints are tried in declared order; the first success provides the
// overall result. When every alternative fails, the error aggregates all
// sub-failures in declared order, so callers can present every attempted
// interpretation of the value.
type AnyOf struct {
	constraints []Constraint
}

// NewAnyOf composes constraints into an ordered set of alternatives. Nested
// AnyOf composites are flattened.
func NewAnyOf(cs ...Constraint) *AnyOf {
	out := make([]Constraint, 0, len(cs))
	for _, c := range cs {
		if o, ok := c.(*AnyOf); ok {
			out = append(out, o.constraints...)
			continue
		}
		out = append(out, c)
	}
	return &AnyOf{constraints: out}
}

// Constraints returns the alternatives in evaluation order.
func (o *AnyOf) Constraints() []Constraint {
	return o.constraints
}

// Or returns a new AnyOf with other appended to the alternatives.
func (o *AnyOf) Or(other Constraint) *AnyOf {
	return NewAnyOf(append(append([]Constraint{}, o.constraints...), other)...)
}

func (o *AnyOf) Validate(value any) (any, error) {
	errs := make([]error, 0, len(o.constraints))
	for _, c := range o.constraints {
		v, err := c.Validate(value)
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	return nil, NewAggregateConstraintError(
		o,
		value,
		fmt.Sprintf("does not match any of %d alternatives", len(o.constraints)),
		errs,
	)
}

func (o *AnyOf) Synopsis() string {
	return joinDescriptions(o.constraints, "or", Constraint.Synopsis)
}

func (o *AnyOf) Description() string {
	return joinDescriptions(o.constraints, "or", Constraint.Description)
}

func joinDescriptions(cs []Constraint, op string, get func(Constraint) string) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if d := get(c); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " "+op+" ")
}
