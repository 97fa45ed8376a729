package linkedin

import (
	"errors"
	"time"

	"jobproof/lib/chrono"
)

// ErrSessionLost signals that the interactive session hit a checkpoint or
// forced logout. It is the only error that ends a run.
var ErrSessionLost = errors.New("linkedin session lost or checkpointed")

// Unknown is the sentinel for any field the extractor could not locate.
// Fields are never left empty so downstream formatting stays stable.
const Unknown = "Unknown"

// UnknownJobID marks a card whose URL did not contain a job id.
// Such cards are skipped, the id is the dedup key.
const UnknownJobID = "unknown"

// Card is one entry on the applied-jobs list page. Role/company are hints,
// the detail page is authoritative but the list view tends to render the
// applied-relative label more consistently.
type Card struct {
	URL             string
	JobID           string
	RoleHint        string
	CompanyHint     string
	AppliedRelative string
}

// Record is one finalized job application. Immutable once routed.
type Record struct {
	JobID            string
	URL              string
	Company          string
	Role             string
	AppliedRaw       string
	Applied          *time.Time
	DescriptionShort string
	Description      string
	Page             int
	PDFPath          string
}

// Bucket returns the record's YYYY-MM grouping key, or "unknown" when the
// application date could not be resolved.
func (r Record) Bucket() string {
	if r.Applied == nil {
		return chrono.UnknownBucket
	}
	return chrono.Bucket(*r.Applied)
}

// AppliedDate is the resolved date column value, empty when unresolved.
func (r Record) AppliedDate() string {
	if r.Applied == nil {
		return ""
	}
	return r.Applied.Format("2006-01-02")
}
