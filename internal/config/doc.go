// Package config implements layered, multi-valued configuration resolution.
//
// A Manager holds an ordered list of named sources, strongest first. The
// fixed precedence order used throughout this library is:
//
//	git-command > git-worktree > git-local > git-global > git-system
//	  > datalad-branch > defaults
//
// Values are resolved by a pure fold over that list: GetAll concatenates a
// key's values from the weakest to the strongest source, preserving
// multi-value order within each source and never deduplicating; Get returns
// the effective single value (the strongest source's last value).
//
// A subset of sources can be declared "protected". Protection is an explicit
// per-source decision with security impact: only sources whose content is
// controlled by the executing user (or an entity the user already trusts,
// such as the super user) should ever be declared protected.
// GetFromProtectedSources restricts resolution to that subset, so callers
// making security-relevant decisions are not influenced by sources that can
// change through unvetted channels (the datalad-branch source updates with
// any merge, and is therefore never protected).
//
// Managers are owned by their repository or worktree by composition. Two
// managers wrapping equal-looking source sets are distinct objects; mutating
// one context's configuration never propagates through accidental instance
// sharing.
package config
