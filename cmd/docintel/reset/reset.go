// Package reset implements the reset command, the CLI path to the
// nuclear clear that wipes the blob store and semantic index.
package reset

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/app"
	"github.com/agentic-docs/docintel/internal/cmdutil"
)

var resetConfirm bool

// ResetCmd wipes every partition and the semantic index back to empty.
var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all stored documents and the semantic index",
	Long: "Wipe all stored documents and the semantic index.\n\n" +
		"Equivalent to POST /storage/clear: every partition directory is emptied and " +
		"the semantic index is rebuilt from scratch. This cannot be undone. Requires " +
		"--yes.",
	Example: `  # Wipe everything
  docintel reset --yes`,
	PreRunE: validateReset,
	RunE:    runReset,
}

func init() {
	ResetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm the destructive reset")
}

func validateReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return errors.New("reset requires --yes to confirm")
	}
	cmd.SilenceUsage = true
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg := cmdutil.Config()
	logger := cmdutil.Logger()
	ctx := context.Background()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components; %w", err)
	}
	defer a.Close(ctx)

	result, err := a.Lifecycle.ClearAll()
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Reset completed with errors: removed=%d failed=%d remaining_files=%d remaining_sections=%d\n",
			result.Removed, result.Failed, result.RemainingFiles, result.RemainingSections)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reset complete: removed=%d failed=%d index_reset=%v\n",
		result.Removed, result.Failed, result.IndexReset)
	return nil
}
