package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalad/datalad-core/internal/command"
	"github.com/datalad/datalad-core/internal/constraints"
)

// ResolvedPath is the structured payload of `path resolve`, one per input.
type ResolvedPath struct {
	Input    string `yaml:"input"`
	Resolved string `yaml:"resolved"`
}

// NewPathCommand creates the path command group.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Inspect path arguments",
	}
	cmd.AddCommand(newPathResolveCommand(rootOpts))
	return cmd
}

func newPathResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var dataset string

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Resolve path arguments the way commands do",
		Long: `Run path arguments through the same constraint machinery command
implementations use. Relative paths resolve against the dataset given with
--dataset (its worktree root), or against the working directory without one.
Absolute paths always pass through unchanged.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPathResolve(rootOpts, cmd, dataset, args)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset to resolve relative paths against")
	return cmd
}

func runPathResolve(opts *RootOptions, cmd *cobra.Command, dataset string, paths []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	processor, err := command.NewJointParamProcessor(
		map[string]constraints.Constraint{
			"dataset": command.NewEnsureDataset(),
			"path":    constraints.NewEnsurePath(),
		},
		command.WithTailorForDataset(map[string]string{"path": "dataset"}),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot build parameter processor", err)
	}

	var results []ResolvedPath
	for _, p := range paths {
		kwargs := map[string]any{"path": p}
		if dataset != "" {
			kwargs["dataset"] = dataset
		}
		out, err := processor.Process(kwargs, nil)
		if err != nil {
			var pe *command.ParamErrors
			if errors.As(err, &pe) {
				_ = formatter.Error(ErrCodeConstraint, pe.Error(), nil)
				return WrapExitError(ExitFailure, "path resolution failed", err)
			}
			return WrapExitError(ExitCommandError, "path resolution failed", err)
		}
		results = append(results, ResolvedPath{
			Input:    p,
			Resolved: out["path"].(string),
		})
	}
	return outputResolvedPaths(formatter, results)
}

func outputResolvedPaths(formatter *OutputFormatter, results []ResolvedPath) error {
	if formatter.Format == "yaml" {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintln(formatter.Writer, r.Resolved)
	}
	return nil
}
