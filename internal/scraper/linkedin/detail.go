package linkedin

import (
	"log/slog"
	"strings"

	"jobproof/lib/htmlutil"
	"jobproof/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// previewRunes bounds the "About the Job" column in the summary workbook.
const previewRunes = 500

// a description shorter than this is assumed to be a stray snippet
// (a collapsed teaser, a cookie banner) rather than the real posting.
const minDescriptionLen = 50

var detailRoleSelectors = []string{
	"h1.t-24.t-bold.inline",
	"h1",
}

var detailCompanySelectors = []string{
	"div.job-details-jobs-unified-top-card__company-name a",
	"a.app-aware-link[href*='/company/']",
	"span.job-details-jobs-unified-top-card__company-name",
}

var detailDescriptionSelectors = []string{
	"div.jobs-description__content",
	"div.jobs-description-content__text",
	"div.jobs-box__html-content",
	"article[class*='jobs-description']",
}

// ParseDetail extracts a record from a rendered job detail page. Each field
// is probed independently: a missing block degrades that one field to its
// Unknown sentinel and never aborts the rest. The returned record still needs
// its date resolved and its page number set.
func ParseDetail(html string, card Card) Record {
	rec := Record{
		JobID:            card.JobID,
		URL:              card.URL,
		Company:          Unknown,
		Role:             Unknown,
		AppliedRaw:       card.AppliedRelative,
		Description:      Unknown,
		DescriptionShort: Unknown,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("failed to parse detail page html", "job_id", card.JobID, "err", err)
		rec.fillHints(card)
		return rec
	}

	if role := htmlutil.FirstText(doc, detailRoleSelectors...); role != "" {
		rec.Role = role
	}
	if company := htmlutil.FirstText(doc, detailCompanySelectors...); company != "" {
		rec.Company = company
	}
	rec.fillHints(card)

	// the list hint is the more consistent source for the applied label,
	// fall back to whatever relative string the detail page renders.
	if rec.AppliedRaw == "" {
		rec.AppliedRaw = relativeTimeRegex.FindString(doc.Text())
	}

	if description := extractDescription(doc, html); description != "" {
		rec.Description = description
		rec.DescriptionShort = textutil.Preview(description, previewRunes)
	} else {
		slog.Warn("no description block found", "job_id", card.JobID)
	}

	return rec
}

func (r *Record) fillHints(card Card) {
	if r.Role == Unknown && card.RoleHint != "" {
		r.Role = card.RoleHint
	}
	if r.Company == Unknown && card.CompanyHint != "" {
		r.Company = card.CompanyHint
	}
}

func extractDescription(doc *goquery.Document, html string) string {
	for _, selector := range detailDescriptionSelectors {
		text := htmlutil.Text(doc.Find(selector).First())
		if len(text) > minDescriptionLen {
			return text
		}
	}

	// selector probes came up empty, let readability have a go at the
	// whole page before giving up on the field.
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		slog.Debug("readability fallback failed", "err", err)
		return ""
	}
	text := textutil.CollapseWhitespace(article.TextContent)
	if len(text) <= minDescriptionLen {
		return ""
	}
	return text
}
