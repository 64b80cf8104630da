package command

import (
	"github.com/datalad/datalad-core/internal/constraints"
	"github.com/datalad/datalad-core/internal/repo"
)

// Dataset satisfies the context interface dataset-tailorable constraints
// specialize with.
var _ constraints.DatasetContext = (*Dataset)(nil)

// EnsureDataset accepts anything a Dataset can be created from: nil, a path
// string, a *repo.Repo, a *repo.Worktree, or an existing *Dataset (returned
// as-is, pristine spec preserved). Validation never forces filesystem
// resolution.
type EnsureDataset struct{}

// NewEnsureDataset creates a dataset constraint.
func NewEnsureDataset() *EnsureDataset {
	return &EnsureDataset{}
}

func (c *EnsureDataset) Validate(value any) (any, error) {
	switch v := value.(type) {
	case *Dataset:
		return v, nil
	case nil, string, *repo.Repo, *repo.Worktree:
		ds, err := NewDataset(v)
		if err != nil {
			return nil, constraints.NewConstraintError(c, value, "%v", err)
		}
		return ds, nil
	default:
		return nil, constraints.NewConstraintError(c, value,
			"cannot create a dataset from %T", value)
	}
}

func (c *EnsureDataset) Synopsis() string {
	return "(path to) a dataset"
}

func (c *EnsureDataset) Description() string {
	return "a dataset given as its location, an existing repository or " +
		"worktree handle, or nothing to address the dataset implied by " +
		"the working directory"
}
