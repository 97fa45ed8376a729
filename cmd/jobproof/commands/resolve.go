package commands

import (
	"fmt"
	"time"

	"jobproof/lib/chrono"
	"jobproof/lib/timezone"

	"github.com/spf13/cobra"
)

var resolveRef *string

func init() {
	resolveRef = resolveCmd.Flags().String("ref", "", "Reference date (YYYY-MM-DD), defaults to today.")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   `resolve "<relative time>"`,
	Short: "Resolves a relative time label like \"11 months ago\" into a date and month bucket.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := timezone.Now()
		if *resolveRef != "" {
			var err error
			ref, err = time.ParseInLocation("2006-01-02", *resolveRef, timezone.Location)
			if err != nil {
				return fmt.Errorf("invalid --ref: %w", err)
			}
		}

		resolved, err := chrono.Resolve(args[0], ref)
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}

		fmt.Printf("%s\t%s\n", resolved.Format("2006-01-02"), chrono.Bucket(resolved))
		return nil
	},
}
