package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/fastsearch/internal/events"
)

// watchCmd groups the file-watcher control-surface commands: start_file_
// watcher, stop_file_watcher, restart_file_watcher, get_file_watcher_status.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Control the polling file-system watcher",
}

var watchStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start watching every configured root until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := app.Store.GetAllPaths()
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			return fmt.Errorf("no roots configured; run `fastsearch paths save <dir>...` first")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		if err := app.Watcher.Start(ctx, roots); err != nil {
			return err
		}

		ch, unsubscribe := app.Bus.Subscribe(64)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return app.Watcher.Stop()
			case evt := <-ch:
				printWatchEvent(evt)
			}
		}
	},
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the watcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Watcher.Stop()
	},
}

var watchRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the watcher against the current root set",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := app.Store.GetAllPaths()
		if err != nil {
			return err
		}
		return app.Watcher.Restart(context.Background(), roots)
	},
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the watcher's current status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := app.Watcher.GetStatus()
		fmt.Printf("watching: %t\n", status.IsWatching)
		fmt.Printf("paths:    %d\n", status.PathCount)
		for _, p := range status.WatchedPaths {
			fmt.Println("  " + p)
		}
		return nil
	},
}

func printWatchEvent(evt events.Event) {
	switch evt.Name {
	case events.FileCreated, events.FileModified, events.FileDeleted:
		fmt.Printf("%s %v\n", evt.Name, evt.Payload)
	case events.WatcherError:
		fmt.Printf("watcher error: %v\n", evt.Payload)
	}
}

func init() {
	watchCmd.AddCommand(watchStartCmd, watchStopCmd, watchRestartCmd, watchStatusCmd)
	rootCmd.AddCommand(watchCmd)
}
