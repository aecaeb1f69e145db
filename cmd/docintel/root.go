// Package docintel assembles the docintel CLI: a cobra root command plus
// the serve, ingest, query, migrate, and reset subcommands.
package docintel

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/cmd/docintel/ingest"
	"github.com/agentic-docs/docintel/cmd/docintel/migrate"
	"github.com/agentic-docs/docintel/cmd/docintel/query"
	"github.com/agentic-docs/docintel/cmd/docintel/reset"
	"github.com/agentic-docs/docintel/cmd/docintel/serve"
	"github.com/agentic-docs/docintel/cmd/docintel/version"
	"github.com/agentic-docs/docintel/internal/cmdutil"
)

// configPath holds the --config flag, consumed by PersistentPreRunE
// before any subcommand runs.
var configPath string

var docintelCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Document intelligence: PDF sectioning and semantic search",
	Long: "docintel splits PDFs into outline-aware sections, embeds them, and serves " +
		"semantic search over the result.\n\n" +
		"The serve command runs the HTTP API. The ingest, query, migrate, and reset " +
		"commands drive the same core directly, for scripting and batch jobs without " +
		"a running server.",
	PersistentPreRunE: runInitialize,
}

func init() {
	docintelCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")

	docintelCmd.AddCommand(version.VersionCmd)
	docintelCmd.AddCommand(serve.ServeCmd)
	docintelCmd.AddCommand(ingest.IngestCmd)
	docintelCmd.AddCommand(query.QueryCmd)
	docintelCmd.AddCommand(migrate.MigrateCmd)
	docintelCmd.AddCommand(reset.ResetCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	if _, err := cmdutil.LoadAndUpgradeLogging(configPath); err != nil {
		return fmt.Errorf("failed to load config; %w", err)
	}
	return nil
}

// Execute runs the docintel root command.
func Execute() error {
	docintelCmd.SilenceErrors = true
	docintelCmd.SilenceUsage = true

	defer func() { _ = cmdutil.CloseLogging() }()

	err := docintelCmd.Execute()
	if err != nil {
		cmd, _, _ := docintelCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = docintelCmd
		}
		fmt.Printf("Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Printf("\n")
			cmd.SetOut(os.Stdout)
			_ = cmd.Usage()
		}
		return err
	}
	return nil
}
