package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalad/datalad-core/internal/command"
	"github.com/datalad/datalad-core/internal/constraints"
)

// DatasetInfo is the structured payload of `dataset resolve`.
type DatasetInfo struct {
	Spec     string `yaml:"spec,omitempty"` // pristine spec, "" for the implied dataset
	Path     string `yaml:"path"`
	Worktree string `yaml:"worktree,omitempty"`
	GitDir   string `yaml:"git_dir,omitempty"`
	Exists   bool   `yaml:"exists"`
}

// NewDatasetCommand creates the dataset command group.
func NewDatasetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect dataset specifications",
	}
	cmd.AddCommand(newDatasetResolveCommand(rootOpts))
	return cmd
}

func newDatasetResolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [spec]",
		Short: "Resolve a dataset spec to its canonical locations",
		Long: `Resolve a dataset specification the way commands do: report the
dataset's base path, and its worktree and git dir when the spec points at an
existing repository. Without a spec the dataset implied by the working
directory is resolved.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec any
			if len(args) == 1 {
				spec = args[0]
			}
			return runDatasetResolve(rootOpts, cmd, spec)
		},
	}
	return cmd
}

func runDatasetResolve(opts *RootOptions, cmd *cobra.Command, spec any) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	v, err := command.NewEnsureDataset().Validate(spec)
	if err != nil {
		var ce *constraints.ConstraintError
		if errors.As(err, &ce) {
			_ = formatter.Error(ErrCodeConstraint, ce.Message, nil)
			return WrapExitError(ExitFailure, "invalid dataset spec", err)
		}
		return WrapExitError(ExitCommandError, "dataset resolution failed", err)
	}
	ds := v.(*command.Dataset)

	info := DatasetInfo{Path: ds.Path()}
	if s, ok := ds.PristineSpec().(string); ok {
		info.Spec = s
	}
	if wt := ds.Worktree(); wt != nil {
		info.Worktree = wt.Path()
		formatter.VerboseLog("Worktree handle %s", wt.ID())
	}
	if r := ds.Repo(); r != nil {
		info.GitDir = r.Path()
		info.Exists = true
	}
	return outputDatasetInfo(formatter, info)
}

func outputDatasetInfo(formatter *OutputFormatter, info DatasetInfo) error {
	if formatter.Format == "yaml" {
		return formatter.Success(info)
	}
	fmt.Fprintf(formatter.Writer, "path: %s\n", info.Path)
	if info.Worktree != "" {
		fmt.Fprintf(formatter.Writer, "worktree: %s\n", info.Worktree)
	}
	if info.GitDir != "" {
		fmt.Fprintf(formatter.Writer, "git dir: %s\n", info.GitDir)
	}
	if !info.Exists {
		fmt.Fprintln(formatter.Writer, "no repository (dataset may be created here)")
	}
	return nil
}
