// Package repo provides flyweight handles for git repositories and
// worktrees.
//
// Handles are cached in a package-level registry keyed by canonical path
// (absolute, symlinks resolved): at any time there is at most one live
// *Repo and one live *Worktree per canonical path. Requesting a handle for
// a path that already has one returns the existing instance, after
// re-validating that it still points at a repository.
//
// Each handle owns its configuration manager, assembled lazily from the
// scopes that apply to it (see package config for the precedence rules).
package repo
