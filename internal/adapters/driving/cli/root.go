// Package cli wires the cobra command tree to the driving ports.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	indexerService driving.Indexer
	searchService  driving.SearchService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docfinder",
	Short: "Local semantic search for documents",
	Long: `DocFinder indexes PDF and office documents into a local SQLite
database and answers natural-language queries against them.

Documents are split into overlapping chunks, embedded, and scored by
vector similarity at query time. Everything runs locally.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the driving services used by the commands.
func SetServices(indexer driving.Indexer, search driving.SearchService) {
	indexerService = indexer
	searchService = search
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, so long-running commands
// stop on cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
