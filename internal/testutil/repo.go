// Package testutil creates throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SkipWithoutGit skips the calling test when no git executable is on PATH.
func SkipWithoutGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available on PATH")
	}
}

// NewGitRepo creates a git repository with one commit in a temp directory
// and returns its worktree root.
func NewGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init", "-q", "-b", "main")
	configureIdentity(t, dir)

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-q", "-m", "initial commit")
	return dir
}

// NewBareRepo creates a bare git repository in a temp directory and returns
// its path.
func NewBareRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init", "-q", "--bare")
	return dir
}

// NewEmptyGitRepo creates a git repository without any commit and returns
// its worktree root.
func NewEmptyGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init", "-q", "-b", "main")
	configureIdentity(t, dir)
	return dir
}

// Chdir changes the working directory for the duration of the test and
// restores the previous one during cleanup. It stands in for
// testing.T.Chdir, which needs Go 1.24.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Error(err)
		}
	})
}

func configureIdentity(t *testing.T, dir string) {
	t.Helper()
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("%s %v: %v\n%s", name, args, err, out)
	}
}
