package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chris-Schnaufer/sparcd-old/internal/app"
)

// Command creates the version command.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and build date",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sparcd %s (built %s)\n", a.Build.GetVersion(), a.Build.GetBuildDate())
		},
	}
}
