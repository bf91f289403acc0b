package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetCmd implements the reset_data control-surface command.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all indexed files, types, paths, and content",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Store.ResetData(); err != nil {
			return err
		}
		fmt.Println("index reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
