// Package state persists run progress to SQLite: which job ids have been
// captured, and the finalized record rows. An interrupted run resumes by
// preloading the dedup set from here, and workbooks can be re-exported
// without touching the source again.
package state

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"jobproof/internal/scraper/linkedin"
	"jobproof/lib/timezone"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

const dateFormat = "2006-01-02"

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) BeginRun(ctx context.Context, reference time.Time, startPage, endPage int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run (id, started_at, reference, start_page, end_page, status)
		VALUES (?, ?, ?, ?, ?, 'running')`,
		id,
		timezone.Now().Format(time.RFC3339),
		reference.Format(time.RFC3339),
		startPage,
		endPage,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// NotePage checkpoints the page the run is currently working through.
func (s *Store) NotePage(ctx context.Context, runID string, page int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE run SET last_page = ? WHERE id = ?`, page, runID)
	return err
}

func (s *Store) FinishRun(ctx context.Context, runID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE run SET status = ?, finished_at = ? WHERE id = ?`,
		status, timezone.Now().Format(time.RFC3339), runID)
	return err
}

// NoteSeen records a captured job id. Idempotent across runs, the first
// run to see an id keeps it.
func (s *Store) NoteSeen(ctx context.Context, runID, jobID string, page int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO seen_job (job_id, run_id, page, seen_at)
		VALUES (?, ?, ?, ?)`,
		jobID, runID, page, timezone.Now().Format(time.RFC3339))
	return err
}

// SeenJobIDs returns every job id captured by any run against this store.
func (s *Store) SeenJobIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id FROM seen_job`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) NoteRecord(ctx context.Context, runID string, rec linkedin.Record) error {
	var appliedDate sql.NullString
	if rec.Applied != nil {
		appliedDate = sql.NullString{String: rec.Applied.Format(dateFormat), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO record (
			job_id, run_id, page, company, role, applied_raw, applied_date,
			bucket, description_short, description, url, pdf_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.JobID, runID, rec.Page, rec.Company, rec.Role, rec.AppliedRaw,
		appliedDate, rec.Bucket(), rec.DescriptionShort, rec.Description,
		rec.URL, rec.PDFPath,
		timezone.Now().Format(time.RFC3339),
	)
	return err
}

// Records returns every persisted record in insertion order.
func (s *Store) Records(ctx context.Context) ([]linkedin.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, page, company, role, applied_raw, applied_date,
		       description_short, description, url, pdf_path
		FROM record ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []linkedin.Record
	for rows.Next() {
		var rec linkedin.Record
		var appliedDate sql.NullString
		err := rows.Scan(
			&rec.JobID, &rec.Page, &rec.Company, &rec.Role, &rec.AppliedRaw,
			&appliedDate, &rec.DescriptionShort, &rec.Description,
			&rec.URL, &rec.PDFPath,
		)
		if err != nil {
			return nil, err
		}
		if appliedDate.Valid {
			applied, err := time.ParseInLocation(dateFormat, appliedDate.String, timezone.Location)
			if err == nil {
				rec.Applied = &applied
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
