package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalad/datalad-core/internal/command"
	"github.com/datalad/datalad-core/internal/config"
)

// ConfigValue is the structured payload of `config get`.
type ConfigValue struct {
	Key    string   `yaml:"key"`
	Value  string   `yaml:"value"`
	Values []string `yaml:"values,omitempty"` // all merged values, weakest first
	Scope  string   `yaml:"scope"`            // "global" or the dataset path
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect effective configuration",
	}
	cmd.AddCommand(newConfigGetCommand(rootOpts))
	return cmd
}

func newConfigGetCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		protected bool
		all       bool
		dataset   string
	)

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Report the effective value of a configuration key",
		Long: `Report the effective value of a configuration key, resolved across
all applicable scopes. Without --dataset the process-global manager is
queried (environment, global, system, defaults); with --dataset the
repository-scoped stack of that dataset applies.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(rootOpts, cmd, args[0], dataset, protected, all)
		},
	}

	cmd.Flags().BoolVar(&protected, "protected", false,
		"consult only sources protected from tampering")
	cmd.Flags().BoolVar(&all, "all", false, "report all merged values, not just the effective one")
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset to scope the query to")
	return cmd
}

func runConfigGet(opts *RootOptions, cmd *cobra.Command, key, dataset string, protected, all bool) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manager, scope, err := managerFor(dataset)
	if err != nil {
		_ = formatter.Error(ErrCodeNoRepo, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot determine configuration scope", err)
	}
	formatter.VerboseLog("Querying %s", manager)

	var items []config.Item
	if protected {
		items = manager.GetAllFromProtectedSources(key)
	} else {
		items = manager.GetAll(key)
	}
	if len(items) == 0 {
		msg := fmt.Sprintf("%s is not set", key)
		_ = formatter.Error(ErrCodeUnsetKey, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	result := ConfigValue{
		Key:   key,
		Value: items[len(items)-1].Value,
		Scope: scope,
	}
	if all {
		for _, it := range items {
			result.Values = append(result.Values, it.Value)
		}
	}
	return outputConfigValue(formatter, result, all)
}

// managerFor returns the configuration manager the query runs against:
// the process-global one, or the dataset-scoped stack.
func managerFor(dataset string) (*config.Manager, string, error) {
	if dataset == "" {
		return config.GetManager(), "global", nil
	}
	ds, err := command.NewDataset(dataset)
	if err != nil {
		return nil, "", err
	}
	if wt := ds.Worktree(); wt != nil {
		m, err := wt.Config()
		return m, ds.Path(), err
	}
	if r := ds.Repo(); r != nil {
		m, err := r.Config()
		return m, ds.Path(), err
	}
	return nil, "", fmt.Errorf("no repository found at %s", ds.Path())
}

func outputConfigValue(formatter *OutputFormatter, result ConfigValue, all bool) error {
	if formatter.Format == "yaml" {
		return formatter.Success(result)
	}
	if all {
		for _, v := range result.Values {
			fmt.Fprintln(formatter.Writer, v)
		}
		return nil
	}
	fmt.Fprintln(formatter.Writer, result.Value)
	return nil
}
