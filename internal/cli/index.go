package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var indexQuiet bool

// indexCmd implements start_content_indexing: drain the Store's pending
// set through the Extractor Dispatcher, independent of a full scan.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index content for files not yet content-indexed (start_content_indexing)",
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter := newBarReporter(indexQuiet)
		stop := make(chan struct{})
		go reporter.watch(stop, app.Bus)

		totals, err := app.Indexer.Run(context.Background())
		close(stop)
		if err != nil {
			return err
		}
		fmt.Printf("processed %d (successful %d, failed %d)\n", totals.Processed, totals.Successful, totals.Failed)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(indexCmd)
}
