package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Chris-Schnaufer/sparcd-old/cmd/config"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/distance"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/export"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/importer"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/lunar"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/report"
	"github.com/Chris-Schnaufer/sparcd-old/cmd/version"
	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
)

// RootCommand creates and returns the root command
func RootCommand(a *app.App) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "sparcd",
		Short:         "Camera trap image analysis",
		Long:          "Analyze tagged camera trap images and print activity, lunar and location reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, &configFile); err != nil {
		// flag names are fixed, so a bind failure is a programming error
		panic(err)
	}

	versionCmd := version.Command(a)

	rootCmd.AddCommand(
		report.Command(a),
		lunar.Command(a),
		distance.Command(a),
		importer.Command(a),
		export.Command(a),
		config.Command(a),
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version needs no configuration
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return a.Initialize(configFile)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface and binds
// the ones that override settings to their viper keys.
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config file (default searches ~/.config/sparcd, /etc/sparcd and .)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.IntP("interval", "i", 0, "Minutes between independent events (default from config)")
	flags.String("timezone", "", "Timezone for timestamps without a zone: Local, UTC or an IANA name")

	bindings := map[string]string{
		"debug":                  "debug",
		"analysis.eventinterval": "interval",
		"analysis.timezone":      "timezone",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}
