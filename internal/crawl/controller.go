// Package crawl drives the page-descending traversal over the applied-jobs
// list: one interactive session, one page at a time, one card at a time.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobproof/internal/dedupe"
	"jobproof/internal/output"
	"jobproof/internal/scraper/linkedin"
	"jobproof/internal/state"
	"jobproof/lib/chrono"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("jobproof/crawl")

// Source is the interactive browser session the controller steers. Results
// may be empty or stale at any time; the controller never assumes success.
type Source interface {
	// WaitForLogin blocks until the user confirms they are logged in.
	WaitForLogin(ctx context.Context) error
	// ListCards returns the job cards visible on a 1-based list page.
	ListCards(ctx context.Context, page int) ([]linkedin.Card, error)
	// OpenDetail navigates to a card's detail view and returns its
	// rendered HTML. The detail view stays open for snapshotting.
	OpenDetail(ctx context.Context, card linkedin.Card) (string, error)
}

type Options struct {
	// pages are walked from StartPage down to EndPage inclusive,
	// StartPage >= EndPage >= 1.
	StartPage int
	EndPage   int
	// Reference is the zero point for relative-date resolution, fixed for
	// the whole run.
	Reference time.Time
	// throttle bounds between cards. A policy knob, not incidental latency.
	MinDelay time.Duration
	MaxDelay time.Duration
	// ListRetries bounds listing re-fetches before a page counts as empty.
	ListRetries int
	// ListRetryDelay is the base delay between listing attempts; attempt n
	// waits n times this long.
	ListRetryDelay time.Duration
}

type Stats struct {
	PagesVisited int
	CardsSkipped int
	Captured     int
	Failed       int
}

type Controller struct {
	src    Source
	router *output.Router
	seen   *dedupe.Set
	store  *state.Store
	opts   Options
}

func New(src Source, router *output.Router, seen *dedupe.Set, store *state.Store, opts Options) (*Controller, error) {
	if opts.StartPage < opts.EndPage || opts.EndPage < 1 {
		return nil, fmt.Errorf("invalid page range %d..%d, want start >= end >= 1", opts.StartPage, opts.EndPage)
	}
	if opts.ListRetries <= 0 {
		opts.ListRetries = 3
	}
	if opts.ListRetryDelay <= 0 {
		opts.ListRetryDelay = 2 * time.Second
	}
	return &Controller{
		src:    src,
		router: router,
		seen:   seen,
		store:  store,
		opts:   opts,
	}, nil
}

// Run walks pages in strictly descending order, routing one finalized record
// per new card. Card failures never abort the page, page failures never abort
// the run; only a lost session (or a cancelled context) ends the run early,
// with everything captured so far intact.
func (c *Controller) Run(ctx context.Context) (Stats, error) {
	ctx, span := tracer.Start(ctx, "crawl:run")
	defer span.End()

	var stats Stats

	if err := c.src.WaitForLogin(ctx); err != nil {
		return stats, fmt.Errorf("login not confirmed: %w", err)
	}

	runID, err := c.store.BeginRun(ctx, c.opts.Reference, c.opts.StartPage, c.opts.EndPage)
	if err != nil {
		return stats, err
	}

	for page := c.opts.StartPage; page >= c.opts.EndPage; page-- {
		if ctx.Err() != nil {
			c.finishRun(runID, "interrupted")
			return stats, ctx.Err()
		}

		err := c.scrapePage(ctx, runID, page, &stats)
		if errors.Is(err, linkedin.ErrSessionLost) {
			slog.Error("session lost, ending run with partial results", "page", page)
			c.finishRun(runID, "session_lost")
			return stats, err
		}

		stats.PagesVisited++
	}

	c.finishRun(runID, "completed")
	return stats, nil
}

func (c *Controller) finishRun(runID, status string) {
	if err := c.store.FinishRun(context.Background(), runID, status); err != nil {
		slog.Warn("failed to finalize run state", "run_id", runID, "err", err)
	}
}

func (c *Controller) scrapePage(ctx context.Context, runID string, page int, stats *Stats) error {
	ctx, span := tracer.Start(ctx, "crawl:page")
	span.SetAttributes(attribute.Int("page", page))
	defer span.End()

	slog.Info("scraping page", "page", page)

	if err := c.store.NotePage(ctx, runID, page); err != nil {
		slog.Warn("failed to checkpoint page", "page", page, "err", err)
	}

	cards, err := c.fetchListing(ctx, page)
	if err != nil {
		return err
	}
	slog.Info("found cards", "page", page, "count", len(cards))

	for _, card := range cards {
		if card.JobID == linkedin.UnknownJobID || c.seen.Seen(card.JobID) {
			stats.CardsSkipped++
			continue
		}
		// attempt each identifier at most once per run, even if the
		// source reorders it onto a later page
		c.seen.MarkSeen(card.JobID)

		err := c.scrapeCard(ctx, runID, page, card)
		if errors.Is(err, linkedin.ErrSessionLost) {
			return err
		}
		if err != nil {
			slog.Warn("failed to scrape card", "job_id", card.JobID, "err", err)
			stats.Failed++
		} else {
			stats.Captured++
		}

		if err := waitRandom(ctx, c.opts.MinDelay, c.opts.MaxDelay); err != nil {
			return nil
		}
	}

	return nil
}

// fetchListing retries an empty or failing listing a bounded number of times
// with increasing delay. A page that stays empty is treated as empty, not
// fatal; the source may just be loading slowly or the layout may have moved.
func (c *Controller) fetchListing(ctx context.Context, page int) ([]linkedin.Card, error) {
	for attempt := 1; ; attempt++ {
		cards, err := c.src.ListCards(ctx, page)
		if errors.Is(err, linkedin.ErrSessionLost) {
			return nil, err
		}
		if err == nil && len(cards) > 0 {
			return cards, nil
		}
		if err != nil {
			slog.Warn("listing fetch failed", "page", page, "attempt", attempt, "err", err)
		} else {
			slog.Warn("listing came back empty", "page", page, "attempt", attempt)
		}

		if attempt >= c.opts.ListRetries {
			return nil, nil
		}
		if err := sleepCtx(ctx, time.Duration(attempt)*c.opts.ListRetryDelay); err != nil {
			return nil, nil
		}
	}
}

func (c *Controller) scrapeCard(ctx context.Context, runID string, page int, card linkedin.Card) error {
	ctx, span := tracer.Start(ctx, "crawl:card")
	span.SetAttributes(attribute.String("job_id", card.JobID))
	defer span.End()

	slog.Debug("opening detail view", "job_id", card.JobID, "url", card.URL)

	html, err := c.src.OpenDetail(ctx, card)
	if err != nil {
		return err
	}

	rec := linkedin.ParseDetail(html, card)
	rec.Page = page

	if rec.AppliedRaw != "" {
		applied, err := chrono.Resolve(rec.AppliedRaw, c.opts.Reference)
		if err != nil {
			slog.Warn("could not resolve application date", "job_id", card.JobID, "raw", rec.AppliedRaw)
		} else {
			rec.Applied = &applied
		}
	}

	rec = c.router.Route(ctx, rec)

	if err := c.store.NoteSeen(ctx, runID, card.JobID, page); err != nil {
		slog.Warn("failed to persist seen id", "job_id", card.JobID, "err", err)
	}
	if err := c.store.NoteRecord(ctx, runID, rec); err != nil {
		slog.Warn("failed to persist record", "job_id", card.JobID, "err", err)
	}

	slog.Info("captured application",
		"company", rec.Company,
		"role", rec.Role,
		"applied", rec.AppliedDate(),
		"bucket", rec.Bucket(),
	)
	return nil
}
