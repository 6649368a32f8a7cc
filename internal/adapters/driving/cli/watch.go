package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch paths and keep the index up to date",
	Long: `Indexes the given paths, then watches them for changes. New and
modified documents are re-indexed; deleted ones are pruned. Runs until
interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second,
		"delay before re-indexing after a change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := cmd.Context()

	// Bring the index up to date before watching.
	if _, err := indexerService.Index(ctx, args); err != nil {
		return fmt.Errorf("initial indexing failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range args {
		if err := watchRecursive(watcher, path); err != nil {
			return err
		}
	}

	cmd.Printf("Watching %d path(s). Press Ctrl-C to stop.\n", len(args))

	// Events are coalesced: any burst of changes triggers one re-index
	// after the debounce interval.
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("Watch event: %s", event)

			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchRecursive(watcher, event.Name); err != nil {
						logger.Warn("Cannot watch %s: %v", event.Name, err)
					}
				}
			}

			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timer.C:
			stats, err := indexerService.Index(ctx, args)
			if err != nil {
				logger.Error("Re-indexing failed: %v", err)
				continue
			}
			removed, err := indexerService.Prune(ctx)
			if err != nil {
				logger.Error("Prune failed: %v", err)
				continue
			}
			cmd.Printf("Re-indexed: %d inserted, %d updated, %d skipped, %d failed, %d pruned\n",
				stats.Inserted, stats.Updated, stats.Skipped, stats.Failed, removed)
		}
	}
}

// watchRecursive adds path and, if it is a directory, every directory
// below it to the watcher.
func watchRecursive(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return watcher.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
