package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// typesCmd implements get_all_types.
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print every registered file extension (get_all_types)",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := app.Store.GetAllTypes()
		if err != nil {
			return err
		}
		for _, t := range types {
			fmt.Println(t)
		}
		return nil
	},
}

// foldersCmd implements get_all_folders.
var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Print every distinct directory name (get_all_folders)",
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := app.Store.GetAllFolders()
		if err != nil {
			return err
		}
		for _, f := range folders {
			fmt.Println(f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd, foldersCmd)
}
