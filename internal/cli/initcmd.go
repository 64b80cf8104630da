package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalad/datalad-core/internal/repo"
)

// InitResult is the structured payload of `init`.
type InitResult struct {
	Path   string `yaml:"path"`
	Bare   bool   `yaml:"bare"`
	Annex  bool   `yaml:"annex,omitempty"`
	Handle string `yaml:"handle"` // instance token, for debugging
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		bare           bool
		annex          bool
		separateGitDir string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a repository for a dataset",
		Long: `Initialize a git repository at the given path (the working directory
without one): a checked-out worktree by default, a bare repository with
--bare. Initializing an existing repository is a no-op. With --annex a
git-annex branch is initialized too.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(rootOpts, cmd, path, bare, annex, separateGitDir)
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "initialize a bare repository")
	cmd.Flags().BoolVar(&annex, "annex", false, "also initialize a git-annex branch")
	cmd.Flags().StringVar(&separateGitDir, "separate-git-dir", "",
		"place the git dir at this path instead of inside the worktree")
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command, path string, bare, annex bool, separateGitDir string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if bare && separateGitDir != "" {
		msg := "--separate-git-dir does not apply to bare repositories"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	result := InitResult{Bare: bare, Annex: annex}
	var annexer interface {
		InitAnnex(description string, autoenableRemotes bool) error
	}
	if bare {
		r, err := repo.InitRepoAt(path)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "initialization failed", err)
		}
		result.Path = r.Path()
		result.Handle = r.ID()
		annexer = r
	} else {
		var initOpts []repo.InitWorktreeOption
		if separateGitDir != "" {
			initOpts = append(initOpts, repo.WithSeparateGitDir(separateGitDir))
		}
		wt, err := repo.InitWorktreeAt(path, initOpts...)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "initialization failed", err)
		}
		result.Path = wt.Path()
		result.Handle = wt.ID()
		annexer = wt
	}

	if annex {
		if err := annexer.InitAnnex("", true); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "annex initialization failed", err)
		}
	}
	return outputInitResult(formatter, result)
}

func outputInitResult(formatter *OutputFormatter, result InitResult) error {
	if formatter.Format == "yaml" {
		return formatter.Success(result)
	}
	kind := "dataset worktree"
	if result.Bare {
		kind = "bare repository"
	}
	fmt.Fprintf(formatter.Writer, "initialized %s at %s\n", kind, result.Path)
	return nil
}
