package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scanQuiet bool

// scanCmd implements sync_files_and_folders: scan every configured root,
// chunked-insert the results, and kick the Content Indexer, streaming
// progress through the shared event bus.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan every configured root and sync the index (sync_files_and_folders)",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := app.Store.GetAllPaths()
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			return fmt.Errorf("no roots configured; run `fastsearch paths save <dir>...` first")
		}

		reporter := newBarReporter(scanQuiet)
		stop := make(chan struct{})
		go reporter.watch(stop, app.Bus)

		result, err := app.Orch.ScanAll(context.Background(), roots)
		close(stop)
		if err != nil {
			return err
		}
		fmt.Printf("scanned %d/%d files\n", result.SuccessCount, result.TotalFiles)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(scanCmd)
}
