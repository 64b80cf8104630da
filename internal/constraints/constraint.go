package constraints

// Constraint validates and coerces a single input value.
//
// Validate returns the canonical form of value, or a *ConstraintError when
// the value is unacceptable or cannot be converted. Implementations must not
// mutate the input.
type Constraint interface {
	Validate(value any) (any, error)

	// Synopsis returns a brief, single-line summary of valid input.
	// It is user-facing and used where space is limited (usage
	// summaries, tooltips).
	Synopsis() string

	// Description returns a full description of valid input. Most
	// constraints return their synopsis; use WithDescription to attach
	// longer documentation.
	Description() string
}

// DatasetContext is the resolution context a constraint can be tailored
// with. It is implemented by the command package's Dataset type; the
// indirection keeps this package free of repository dependencies.
type DatasetContext interface {
	// Path returns the base path of the dataset context: the resolved
	// worktree root when one exists, the process working directory for
	// an empty spec.
	Path() string
}

// DatasetTailored is the capability interface for constraints that can
// specialize for a resolved dataset context. ForDataset returns a new
// constraint bound to ds; it must return the receiver unchanged when ds is
// nil (tailoring without a dataset context is a no-op).
type DatasetTailored interface {
	ForDataset(ds DatasetContext) Constraint
}

// TailorForDataset returns c specialized for ds when c implements
// DatasetTailored, and c unchanged otherwise.
func TailorForDataset(c Constraint, ds DatasetContext) Constraint {
	if t, ok := c.(DatasetTailored); ok {
		return t.ForDataset(ds)
	}
	return c
}

// NoConstraint accepts any value unchanged. It is an explicit "do not
// convert" placeholder, distinguishable from an omitted constraint.
type NoConstraint struct{}

// NewNoConstraint creates a pass-through constraint.
func NewNoConstraint() *NoConstraint {
	return &NoConstraint{}
}

func (c *NoConstraint) Validate(value any) (any, error) {
	return value, nil
}

func (c *NoConstraint) Synopsis() string { return "" }

func (c *NoConstraint) Description() string { return "" }
