package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index documents under the given paths",
	Long: `Indexes the documents found under the given files or directories.
Directories are walked recursively; unchanged documents are skipped by
content hash, changed ones are re-indexed in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	stats, err := indexerService.Index(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if stats.Total() == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Printf("Inserted: %d, updated: %d, skipped: %d, failed: %d\n",
		stats.Inserted, stats.Updated, stats.Skipped, stats.Failed)

	if stats.Failed > 0 {
		return fmt.Errorf("%d document(s) failed to index", stats.Failed)
	}
	return nil
}
