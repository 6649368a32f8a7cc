package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

var removeCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Remove a document from the index",
	Long: `Removes the document stored under the given path, along with all
its chunks. The file itself is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	// Documents are stored under their absolute path.
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	if err := indexerService.Remove(cmd.Context(), path); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no indexed document at %s", path)
		}
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Removed %s from the index.\n", path)
	return nil
}
