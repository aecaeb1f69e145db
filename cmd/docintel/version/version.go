// Package version implements the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/version"
)

// VersionCmd displays version and build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Long: "Display version and build information.\n\n" +
		"Shows the semantic version, git commit hash, and build date of the current " +
		"docintel binary.",
	Example: `  # Display version information
  docintel version`,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	fmt.Fprintln(cmd.OutOrStdout(), info.String())
	return nil
}
