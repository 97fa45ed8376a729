package commands

import (
	"context"
	"fmt"
	"os"

	"jobproof/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "jobproof",
	Short: "jobproof collects proof of job applications from a LinkedIn profile.",
	Long: "jobproof walks the applied-jobs pages of a logged-in LinkedIn session,\n" +
		"reconstructs application dates from relative labels, and files one\n" +
		"spreadsheet row plus one PDF snapshot per application, bucketed by month.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
