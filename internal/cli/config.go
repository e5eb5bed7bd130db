package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pvz/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigValidateCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration a session would use: defaults, overlaid by
--config, overlaid by --seed, --locale and --journal. The text output is a
valid config file.

Example:
  pvz config show > pvz.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode config", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return out.Success(cfg, func(w io.Writer) {
				_, _ = w.Write(data)
			})
		},
	}
}

func newConfigValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config file against the schema",
		Long: `Check a config file against the schema without starting a session.

Exit codes:
  0 - The file is valid
  2 - The file is unreadable or invalid`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			if _, err := config.Load(args[0]); err != nil {
				_ = out.Error(CodeConfig, err.Error(), map[string]string{"file": args[0]})
				return WrapExitError(ExitCommandError, "invalid config", err)
			}
			return out.Success(map[string]string{"file": args[0], "status": "valid"}, func(w io.Writer) {
				fmt.Fprintf(w, "%s: valid\n", args[0])
			})
		},
	}
}
