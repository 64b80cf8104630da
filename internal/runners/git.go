package runners

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// CommandError reports a failed Git (or git-annex) invocation.
type CommandError struct {
	// Argv is the full command line, executable included.
	Argv []string

	// ExitCode is the process exit status, or -1 when the process could
	// not be started.
	ExitCode int

	// Stdout and Stderr hold captured output, when capturing was enabled.
	Stdout string
	Stderr string

	// Dir is the working directory the command ran in ("" for the
	// process CWD).
	Dir string

	// Err is the underlying execution error.
	Err error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", strings.Join(e.Argv, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// IsCommandError reports whether err is (or wraps) a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

// gitOpts collects per-call adjustments for the helpers below.
type gitOpts struct {
	dir          string
	input        string
	forceCLocale bool
}

// GitOption adjusts a single Git invocation.
type GitOption func(*gitOpts)

// InDir runs the command with the given working directory.
func InDir(dir string) GitOption {
	return func(o *gitOpts) { o.dir = dir }
}

// WithInput feeds the given string to the command's stdin. Intended for
// small-scale inputs only.
func WithInput(input string) GitOption {
	return func(o *gitOpts) { o.input = input }
}

// ForceCLocale runs the command under LC_ALL=C so output can be processed in
// a locale-invariant fashion.
func ForceCLocale() GitOption {
	return func(o *gitOpts) { o.forceCLocale = true }
}

// CallGit runs git with the given arguments and returns captured stdout.
// A non-zero exit is reported as a *CommandError.
func CallGit(args []string, opts ...GitOption) (string, error) {
	return call("git", args, opts...)
}

// CallGitLines runs git and returns its stdout split into lines.
func CallGitLines(args []string, opts ...GitOption) ([]string, error) {
	out, err := CallGit(args, opts...)
	if err != nil {
		return nil, err
	}
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CallGitOneline runs git and returns its single line of stdout. It is an
// error for the command to produce no, or more than one, line.
func CallGitOneline(args []string, opts ...GitOption) (string, error) {
	lines, err := CallGitLines(args, opts...)
	if err != nil {
		return "", err
	}
	if len(lines) != 1 {
		return "", fmt.Errorf("git %s: expected one line of output, got %d",
			strings.Join(args, " "), len(lines))
	}
	return lines[0], nil
}

// CallGitSuccess runs git and reports whether it exited successfully.
// Failures are logged at debug level and swallowed.
func CallGitSuccess(args []string, opts ...GitOption) bool {
	if _, err := CallGit(args, opts...); err != nil {
		slog.Debug("git call failed", "args", args, "err", err)
		return false
	}
	return true
}

// CallAnnex runs git-annex (via `git annex`) and returns captured stdout.
func CallAnnex(args []string, opts ...GitOption) (string, error) {
	return call("git", append([]string{"annex"}, args...), opts...)
}

// HaveGit reports whether a git executable is available on PATH.
func HaveGit() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func call(exe string, args []string, opts ...GitOption) (string, error) {
	o := &gitOpts{}
	for _, opt := range opts {
		opt(o)
	}

	cmd := exec.Command(exe, args...)
	cmd.Dir = o.dir
	if o.input != "" {
		cmd.Stdin = strings.NewReader(o.input)
	}
	if o.forceCLocale {
		cmd.Env = append(os.Environ(), "LC_ALL=C")
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return "", &CommandError{
			Argv:     append([]string{exe}, args...),
			ExitCode: code,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Dir:      o.dir,
			Err:      err,
		}
	}
	return stdout.String(), nil
}
