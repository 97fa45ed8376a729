package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"jobproof/internal/output"
	"jobproof/internal/state"

	"github.com/spf13/cobra"
)

var (
	exportDB  *string
	exportDir *string
)

func init() {
	exportDB = exportCmd.Flags().String("db", "output/state.db", "Path to the state database.")
	exportDir = exportCmd.Flags().String("out", "output", "Directory to write the workbooks into.")
	rootCmd.AddCommand(exportCmd)
}

// export rebuilds both workbooks from rows captured by earlier runs, no
// browser involved.
var exportCmd = &cobra.Command{
	Use:   "export [--db <state.db>] [--out <dir>]",
	Short: "Regenerates the spreadsheets from the state database without scraping.",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := state.Open(*exportDB)
		if err != nil {
			fatal("failed to open state database", err)
		}
		defer store.Close()

		records, err := store.Records(cmd.Context())
		if err != nil {
			fatal("failed to load records", err)
		}
		if len(records) == 0 {
			slog.Warn("state database holds no records", "db", *exportDB)
		}

		if err := os.MkdirAll(*exportDir, 0o755); err != nil {
			fatal("failed to create output directory", err)
		}
		if err := output.WriteSummary(records, filepath.Join(*exportDir, "summary.xlsx")); err != nil {
			fatal("failed to write summary workbook", err)
		}
		if err := output.WriteFull(records, filepath.Join(*exportDir, "full_descriptions.xlsx")); err != nil {
			fatal("failed to write full workbook", err)
		}

		counts := map[string]int{}
		for _, rec := range records {
			counts[rec.Bucket()]++
		}
		output.RenderBucketSummary(os.Stdout, counts)
		slog.Info("export complete", "records", len(records), "dir", *exportDir)
	},
}
