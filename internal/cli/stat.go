package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statCmd implements the get_stat control-surface command.
var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print aggregate counts over the indexed tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := app.Store.GetStat()
		if err != nil {
			return err
		}
		fmt.Printf("files:              %d\n", st.NbFiles)
		fmt.Printf("folders:            %d\n", st.NbFolders)
		fmt.Printf("total size (bytes): %d\n", st.TotalSize)
		fmt.Printf("indexed:            %d (%.1f%%)\n", st.IndexedFiles, st.IndexedPercentage)
		fmt.Printf("unindexed:          %d\n", st.UnindexedFiles)
		fmt.Printf("content indexed:    %d (%.1f%%)\n", st.ContentIndexedFiles, st.ContentIndexedPercentage)
		fmt.Printf("not content indexed:%d\n", st.UncontentIndexedFiles)
		fmt.Printf("not indexable:      %d\n", st.UnindexableFiles)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
