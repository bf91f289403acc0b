package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/fastsearch/internal/orchestrator"
)

// diagnoseCmd implements diagnose_scan_issues: a pre-flight check over
// candidate roots before a scan is kicked off.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [paths...]",
	Short: "Precheck candidate roots for existence, directory-ness, and readability",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues := orchestrator.DiagnoseScanIssues(args)
		if len(issues) == 0 {
			fmt.Println("no issues found")
			return nil
		}
		for _, issue := range issues {
			fmt.Println(issue)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
