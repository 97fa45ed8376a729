package output

import (
	"fmt"

	"jobproof/internal/scraper/linkedin"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Applications"

var summaryColumns = []string{
	"Company", "Role", "Application Date", "About the Job",
	"URL", "Job ID", "Page", "PDF",
}

// WriteSummary writes the human-readable log: one bounded-length row per
// application, suitable for submission.
func WriteSummary(records []linkedin.Record, path string) error {
	return writeWorkbook(path, summaryColumns, records, func(rec linkedin.Record) []any {
		return []any{
			rec.Company, rec.Role, appliedColumn(rec), rec.DescriptionShort,
			rec.URL, rec.JobID, rec.Page, rec.PDFPath,
		}
	})
}

// WriteFull writes the audit log: every field including the unabridged
// description, so rows can be reprocessed without re-scraping.
func WriteFull(records []linkedin.Record, path string) error {
	columns := append(append([]string{}, summaryColumns...), "Full Description")
	return writeWorkbook(path, columns, records, func(rec linkedin.Record) []any {
		return []any{
			rec.Company, rec.Role, appliedColumn(rec), rec.DescriptionShort,
			rec.URL, rec.JobID, rec.Page, rec.PDFPath, rec.Description,
		}
	})
}

// appliedColumn shows the resolved date when there is one, otherwise the raw
// relative string so the row stays auditable.
func appliedColumn(rec linkedin.Record) string {
	if date := rec.AppliedDate(); date != "" {
		return date
	}
	return rec.AppliedRaw
}

func writeWorkbook(path string, columns []string, records []linkedin.Record, row func(linkedin.Record) []any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for i, rec := range records {
		for col, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
