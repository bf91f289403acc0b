package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// pathsCmd groups the root-set commands (save_paths / get_all_paths).
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Manage the configured root directory set",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every configured root (get_all_paths)",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.Store.GetAllPaths()
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

// pathsSaveCmd implements save_paths: replace the root set, then trigger a
// scan over the new roots and restart the Watcher against them.
var pathsSaveCmd = &cobra.Command{
	Use:   "save [paths...]",
	Short: "Replace the configured root set, scan it, and restart the watcher",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := app.Store.InsertPaths(args)
		if err != nil {
			return err
		}
		fmt.Printf("root set updated: %d new root(s) added (%s)\n", len(added), strings.Join(added, ", "))

		ctx := context.Background()
		reporter := newBarReporter(quietFlag)
		stop := make(chan struct{})
		go reporter.watch(stop, app.Bus)
		result, err := app.Orch.ScanAll(ctx, args)
		close(stop)
		if err != nil {
			return err
		}
		fmt.Printf("scanned %d/%d files\n", result.SuccessCount, result.TotalFiles)

		if err := app.Watcher.Restart(ctx, args); err != nil {
			return fmt.Errorf("restart watcher: %w", err)
		}
		return nil
	},
}

var quietFlag bool

func init() {
	pathsSaveCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress progress output")
	pathsCmd.AddCommand(pathsListCmd, pathsSaveCmd)
	rootCmd.AddCommand(pathsCmd)
}
