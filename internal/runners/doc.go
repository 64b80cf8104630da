// Package runners executes Git and git-annex commands for the rest of the
// library.
//
// All helpers are thin, synchronous wrappers over os/exec. A non-zero exit
// is reported as a *CommandError carrying the argv, exit status, and
// captured output; nothing in this package retries.
package runners
