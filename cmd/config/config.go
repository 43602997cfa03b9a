package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
	"github.com/Chris-Schnaufer/sparcd-old/internal/conf"
	"github.com/Chris-Schnaufer/sparcd-old/internal/errors"
)

const redacted = "[REDACTED]"

// Command creates the config command and its show and write subcommands.
func Command(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(Redact(a.Settings))
			if err != nil {
				return errors.New(err).
					Component("cli").
					Category(errors.CategoryConfiguration).
					Build()
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	write := &cobra.Command{
		Use:   "write path",
		Short: "Write the effective settings to a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.SaveYAMLConfig(args[0], a.Settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings written to %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(show, write)
	return cmd
}

// Redact returns a copy of s with passwords and DSNs replaced.
func Redact(s *conf.Settings) conf.Settings {
	out := *s
	if out.Datastore.MySQL.Password != "" {
		out.Datastore.MySQL.Password = redacted
	}
	if out.Telemetry.DSN != "" {
		out.Telemetry.DSN = redacted
	}
	return out
}
