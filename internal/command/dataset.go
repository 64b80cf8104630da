package command

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/datalad/datalad-core/internal/repo"
)

// Dataset represents a dataset a command operates on.
//
// A Dataset wraps the pristine specification it was created from — nil (the
// dataset implied by the working directory), a path string, or an existing
// repo/worktree handle — and resolves it lazily. A Dataset may legally point
// at nothing on the filesystem: commands that create datasets accept specs
// for locations that do not exist yet.
type Dataset struct {
	spec any

	mu       sync.Mutex
	path     string
	wtDone   bool
	worktree *repo.Worktree
	repoDone bool
	repoH    *repo.Repo
}

// NewDataset creates a Dataset from a pristine spec: nil, a path string, a
// *repo.Repo, or a *repo.Worktree. Any other spec type is rejected.
func NewDataset(spec any) (*Dataset, error) {
	switch spec.(type) {
	case nil, string, *repo.Repo, *repo.Worktree:
		return &Dataset{spec: spec}, nil
	default:
		return nil, fmt.Errorf("cannot create a dataset from %T", spec)
	}
}

// PristineSpec returns the spec the Dataset was created from, unmodified.
func (d *Dataset) PristineSpec() any { return d.spec }

// Path returns the dataset's base path: the worktree root when one
// resolves, else the repository root, else the spec interpreted as a path,
// else the process working directory for a nil spec. The result is
// absolute and memoized.
func (d *Dataset) Path() string {
	d.mu.Lock()
	if d.path != "" {
		defer d.mu.Unlock()
		return d.path
	}
	d.mu.Unlock()

	var p string
	switch {
	case d.Worktree() != nil:
		p = d.Worktree().Path()
	case d.Repo() != nil:
		p = d.Repo().Path()
	default:
		spec, _ := d.spec.(string)
		if spec == "" {
			spec = "."
		}
		abs, err := filepath.Abs(spec)
		if err != nil {
			cwd, _ := os.Getwd()
			abs = filepath.Join(cwd, spec)
		}
		p = abs
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		d.path = p
	}
	return d.path
}

// Worktree returns the worktree handle for the dataset, or nil when the
// spec does not resolve to a checked-out worktree. Resolution goes through
// the flyweight registry and is memoized per Dataset.
func (d *Dataset) Worktree() *repo.Worktree {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.wtDone {
		return d.worktree
	}
	d.wtDone = true
	switch spec := d.spec.(type) {
	case *repo.Worktree:
		d.worktree = spec
	case *repo.Repo:
		// an administrative dir is not a checkout
	case string:
		if wt, err := repo.WorktreeAt(spec); err == nil {
			d.worktree = wt
		}
	case nil:
		if cwd, err := os.Getwd(); err == nil {
			if wt, err := repo.WorktreeAt(cwd); err == nil {
				d.worktree = wt
			}
		}
	}
	return d.worktree
}

// Repo returns the repository handle for the dataset, or nil when nothing
// exists at the spec's location. Memoized per Dataset.
func (d *Dataset) Repo() *repo.Repo {
	wt := d.Worktree()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.repoDone {
		return d.repoH
	}
	d.repoDone = true
	if wt != nil {
		if r, err := wt.Repo(); err == nil {
			d.repoH = r
		}
		return d.repoH
	}
	switch spec := d.spec.(type) {
	case *repo.Repo:
		d.repoH = spec
	case string:
		if r, err := repo.RepoAt(spec); err == nil {
			d.repoH = r
		}
	}
	return d.repoH
}

// Equal reports whether two Datasets were created from the same pristine
// spec. Resolution state never participates in equality.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.spec == o.spec
}

func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(%v)", d.spec)
}
