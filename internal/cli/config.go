package cli

import (
	"github.com/spf13/cobra"

	"github.com/Davincible/seedphrase/pkg/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	cmd.AddCommand(newConfigShowCommand(), newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !s.outputJSON {
				cyan.Fprintf(s.out, "# %s\n", s.cm.Path())
			}
			return s.printJSON(s.config())
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cm, err := config.InitConfig(path, force)
			if err != nil {
				return err
			}

			green.Fprintf(cmd.OutOrStdout(), "✓ Wrote default configuration to %s\n", cm.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
