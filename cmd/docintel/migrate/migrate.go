// Package migrate implements the migrate command, a one-shot trigger for
// moving legacy flat-layout PDFs into their partition directories.
package migrate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/app"
	"github.com/agentic-docs/docintel/internal/cmdutil"
)

// MigrateCmd moves legacy flat-layout files into their partitions.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move legacy flat-layout files into partitions",
	Long: "Move legacy flat-layout files into partitions.\n\n" +
		"Equivalent to POST /storage/migrate: any PDF sitting directly under the blob " +
		"store root, predating the bulk/fresh/viewer split, is moved into its " +
		"partition directory.",
	Example: `  # Run a one-off migration sweep
  docintel migrate`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := cmdutil.Config()
	logger := cmdutil.Logger()
	ctx := context.Background()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components; %w", err)
	}
	defer a.Close(ctx)

	moved, err := a.Lifecycle.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed; %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d file(s)\n", moved)
	return nil
}
