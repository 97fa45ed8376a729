// Package output buckets finalized records by application month, accumulates
// the two workbook logs, and files one snapshot per record.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"jobproof/internal/scraper/linkedin"
	"jobproof/lib/textutil"
)

// Snapshotter persists a document capture of the currently open detail view.
type Snapshotter interface {
	Snapshot(ctx context.Context, dest string) error
}

const (
	maxCompanyLen = 50
	maxRoleLen    = 60
)

type Router struct {
	root    string
	snap    Snapshotter
	records []linkedin.Record
}

func NewRouter(root string, snap Snapshotter) *Router {
	return &Router{root: root, snap: snap}
}

// Route finalizes a record: computes its month bucket path, appends it to the
// accumulating logs, and requests exactly one snapshot of the open detail
// view. The log append and the snapshot request always travel together; a
// failed snapshot write is logged and clears the record's PDF column but the
// row stays.
func (r *Router) Route(ctx context.Context, rec linkedin.Record) linkedin.Record {
	rec.PDFPath = r.snapshotPath(rec)

	dest := filepath.Join(r.root, rec.PDFPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		slog.Warn("could not create snapshot folder", "path", dest, "err", err)
		rec.PDFPath = ""
	} else if err := r.snap.Snapshot(ctx, dest); err != nil {
		slog.Warn("could not save snapshot", "job_id", rec.JobID, "path", dest, "err", err)
		rec.PDFPath = ""
	}

	r.records = append(r.records, rec)
	return rec
}

// snapshotPath is relative to the output root:
// pdfs/<bucket>/<Company>_<Role>_<JobID>.pdf. The job id keeps colliding
// company+role pairs within a month apart.
func (r *Router) snapshotPath(rec linkedin.Record) string {
	filename := fmt.Sprintf(
		"%s_%s_%s.pdf",
		textutil.SanitizeFilename(rec.Company, maxCompanyLen),
		textutil.SanitizeFilename(rec.Role, maxRoleLen),
		rec.JobID,
	)
	return filepath.Join("pdfs", rec.Bucket(), filename)
}

// Records returns the accumulated log in encounter order.
func (r *Router) Records() []linkedin.Record {
	return r.records
}

// BucketCounts tallies routed records per month bucket.
func (r *Router) BucketCounts() map[string]int {
	counts := map[string]int{}
	for _, rec := range r.records {
		counts[rec.Bucket()]++
	}
	return counts
}

// WriteWorkbooks writes both spreadsheet logs under the output root. Always
// writes both files, even when the run collected nothing, so a completed run
// has a stable output surface.
func (r *Router) WriteWorkbooks() error {
	if err := WriteSummary(r.records, filepath.Join(r.root, "summary.xlsx")); err != nil {
		return err
	}
	return WriteFull(r.records, filepath.Join(r.root, "full_descriptions.xlsx"))
}
