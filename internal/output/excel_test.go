package output

import (
	"path/filepath"
	"testing"
	"time"

	"jobproof/internal/scraper/linkedin"
	"jobproof/lib/timezone"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSummary(t *testing.T) {
	applied := time.Date(2025, time.February, 3, 0, 0, 0, 0, timezone.Location)
	records := []linkedin.Record{
		{
			JobID:            "1111",
			URL:              "https://www.linkedin.com/jobs/view/1111/",
			Company:          "Acme",
			Role:             "Engineer",
			AppliedRaw:       "11 months ago",
			Applied:          &applied,
			DescriptionShort: "Build things.",
			Description:      "Build things. All of them.",
			Page:             3,
			PDFPath:          "pdfs/2025-02/Acme_Engineer_1111.pdf",
		},
		{
			JobID:            "2222",
			URL:              "https://www.linkedin.com/jobs/view/2222/",
			Company:          linkedin.Unknown,
			Role:             "Analyst",
			AppliedRaw:       "recently",
			DescriptionShort: linkedin.Unknown,
			Description:      linkedin.Unknown,
			Page:             2,
		},
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteSummary(records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, summaryColumns, rows[0])
	require.Equal(t, "Acme", rows[1][0])
	require.Equal(t, "2025-02-03", rows[1][2])
	// unresolved date column falls back to the raw relative string
	require.Equal(t, "recently", rows[2][2])
}

func TestWriteFullIncludesDescription(t *testing.T) {
	records := []linkedin.Record{
		{
			JobID:            "1111",
			Company:          "Acme",
			Role:             "Engineer",
			DescriptionShort: "short",
			Description:      "the full unabridged description",
		},
	}

	path := filepath.Join(t.TempDir(), "full.xlsx")
	require.NoError(t, WriteFull(records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Equal(t, "Full Description", rows[0][len(rows[0])-1])
	require.Equal(t, "the full unabridged description", rows[1][len(rows[1])-1])
}

func TestWriteSummaryEmptyRunStillProducesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteSummary(nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
