package constraints

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathFormat restricts the accepted shape of a path input.
type PathFormat int

const (
	// AnyFormat accepts absolute and relative inputs.
	AnyFormat PathFormat = iota
	// AbsolutePath requires the input to be an absolute path.
	AbsolutePath
	// RelativePath requires the input to be a relative path. Such inputs
	// are returned cleaned, but not resolved against a base.
	RelativePath
)

// RefRelation is the comparison performed between a validated path and a
// reference path.
type RefRelation int

const (
	// RefParentOrSame accepts paths equal to, or contained in, the
	// reference.
	RefParentOrSame RefRelation = iota
	// RefParentOf accepts only paths strictly contained in the reference.
	RefParentOf
)

// EnsurePath converts an input into a canonical platform path and verifies
// select properties.
//
// Un-tailored, relative inputs resolve against the current working
// directory. Use ForDataset to obtain a variant that resolves relative
// inputs against a dataset's worktree root instead. Absolute inputs are
// always returned unchanged (cleaned) regardless of tailoring.
type EnsurePath struct {
	format  PathFormat
	lexists *bool
	ref     string
	refRel  RefRelation
}

// PathOption customizes an EnsurePath constraint.
type PathOption func(*EnsurePath)

// WithFormat requires the input to match the given path format.
func WithFormat(f PathFormat) PathOption {
	return func(e *EnsurePath) { e.format = f }
}

// WithLexists requires the path to exist (true) or not exist (false) on the
// filesystem. A symlink need not point to an existing target to satisfy
// existence.
func WithLexists(exists bool) PathOption {
	return func(e *EnsurePath) { e.lexists = &exists }
}

// WithRef requires the validated path to stand in the given relation to a
// reference path.
func WithRef(ref string, rel RefRelation) PathOption {
	return func(e *EnsurePath) {
		e.ref = filepath.Clean(ref)
		e.refRel = rel
	}
}

// NewEnsurePath creates a path constraint with the given options.
func NewEnsurePath(opts ...PathOption) *EnsurePath {
	e := &EnsurePath{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *EnsurePath) Validate(value any) (any, error) {
	p, err := pathFromValue(e, value)
	if err != nil {
		return nil, err
	}
	// format is checked on the raw input, before any resolution turns it
	// absolute
	if e.format == AbsolutePath && !filepath.IsAbs(p) {
		return nil, NewConstraintError(e, value, "%s is not an absolute path", p)
	}
	if e.format == RelativePath && filepath.IsAbs(p) {
		return nil, NewConstraintError(e, value, "%s is not a relative path", p)
	}
	if e.format != RelativePath && !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, NewConstraintError(e, value, "cannot determine working directory: %v", err)
		}
		p = filepath.Join(cwd, p)
	}
	return e.check(value, p)
}

// check runs the property tests on an already-resolved path and returns it.
func (e *EnsurePath) check(value any, p string) (any, error) {
	if e.lexists != nil {
		_, err := os.Lstat(p)
		switch {
		case *e.lexists && err != nil:
			return nil, NewConstraintError(e, value, "%s does not exist", p)
		case !*e.lexists && err == nil:
			return nil, NewConstraintError(e, value, "%s does (already) exist", p)
		}
	}
	if e.ref != "" {
		ok := isPathUnder(e.ref, p)
		if e.refRel == RefParentOf && p == e.ref {
			ok = false
		}
		if !ok {
			return nil, NewConstraintError(e, value,
				"%s is not %s %s", e.ref, e.refRel.label(), p)
		}
	}
	return p, nil
}

// ForDataset returns a variant of this constraint that resolves relative
// inputs against ds. A nil context returns the receiver unchanged.
func (e *EnsurePath) ForDataset(ds DatasetContext) Constraint {
	if ds == nil {
		return e
	}
	return NewEnsureDatasetPath(e, ds)
}

func (e *EnsurePath) Synopsis() string {
	var b strings.Builder
	if e.lexists != nil {
		if *e.lexists {
			b.WriteString("existing ")
		} else {
			b.WriteString("non-existing ")
		}
	}
	switch e.format {
	case AbsolutePath:
		b.WriteString("absolute ")
	case RelativePath:
		b.WriteString("relative ")
	}
	b.WriteString("path")
	if e.ref != "" {
		fmt.Fprintf(&b, " with %s %s", e.refRel.label(), e.ref)
	}
	return b.String()
}

func (e *EnsurePath) Description() string { return e.Synopsis() }

// EnsureDatasetPath resolves a path in the context of a particular dataset.
//
// It behaves exactly like the EnsurePath constraint it wraps, except that a
// nil input yields the dataset's path, and relative inputs resolve against
// the dataset's path (its worktree root when one exists) instead of the
// ambient working directory. Absolute inputs pass through unchanged.
type EnsureDatasetPath struct {
	path    *EnsurePath
	dataset DatasetContext
}

// NewEnsureDatasetPath binds a path constraint to a dataset context.
func NewEnsureDatasetPath(path *EnsurePath, ds DatasetContext) *EnsureDatasetPath {
	return &EnsureDatasetPath{path: path, dataset: ds}
}

// Dataset returns the bound dataset context.
func (e *EnsureDatasetPath) Dataset() DatasetContext {
	return e.dataset
}

func (e *EnsureDatasetPath) Validate(value any) (any, error) {
	if value == nil {
		return e.path.check(value, filepath.Clean(e.dataset.Path()))
	}
	p, err := pathFromValue(e.path, value)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(e.dataset.Path(), p)
	}
	return e.path.check(value, p)
}

func (e *EnsureDatasetPath) Synopsis() string { return e.path.Synopsis() }

func (e *EnsureDatasetPath) Description() string { return e.path.Description() }

func (r RefRelation) label() string {
	if r == RefParentOf {
		return "parent-of"
	}
	return "parent-or-same-as"
}

// pathFromValue converts a supported input into a cleaned path string.
func pathFromValue(origin Constraint, value any) (string, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", NewConstraintError(origin, value, "an empty string is not a path")
		}
		return filepath.Clean(v), nil
	case interface{ Path() string }:
		return filepath.Clean(v.Path()), nil
	default:
		return "", NewConstraintError(origin, value, "cannot convert %T to a path", value)
	}
}

// isPathUnder reports whether p equals ref or is contained in it.
func isPathUnder(ref, p string) bool {
	if p == ref {
		return true
	}
	rel, err := filepath.Rel(ref, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
