// Package query implements the query command, which searches the
// semantic index directly against the core components.
package query

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/app"
	"github.com/agentic-docs/docintel/internal/cmdutil"
)

var queryLimit int

// QueryCmd searches the semantic index for text matching the query.
var QueryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the semantic index",
	Long: "Search the semantic index for sections matching the query text.\n\n" +
		"Equivalent to POST /search/query, printed as ranked plain text.",
	Example: `  # Search for a topic across ingested documents
  docintel query "quarterly revenue by region"

  # Return up to 10 matches
  docintel query "quarterly revenue by region" --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	QueryCmd.Flags().IntVar(&queryLimit, "limit", 5, "Maximum number of results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := cmdutil.Config()
	logger := cmdutil.Logger()
	ctx := context.Background()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components; %w", err)
	}
	defer a.Close(ctx)

	results, err := a.Index.Query(ctx, args[0], queryLimit, a.Embedder)
	if err != nil {
		return fmt.Errorf("query failed; %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(out, "%d. [%.3f] %s p.%d — %s\n", i+1, r.Score, r.Filename, r.Page, r.SectionHeading)
		fmt.Fprintf(out, "   %s\n", r.Snippet)
	}
	return nil
}
