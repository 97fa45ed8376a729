package crawl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jobproof/internal/dedupe"
	"jobproof/internal/output"
	"jobproof/internal/scraper/linkedin"
	"jobproof/internal/state"
	"jobproof/lib/timezone"

	"github.com/stretchr/testify/require"
)

var testReference = time.Date(2026, time.January, 3, 10, 0, 0, 0, timezone.Location)

type fakeSource struct {
	pages       map[int][]linkedin.Card
	detail      map[string]string
	listFails   map[int]int
	lostOn      string
	listCalls   []int
	detailCalls []string
	loginCalls  int
}

func (f *fakeSource) WaitForLogin(ctx context.Context) error {
	f.loginCalls++
	return nil
}

func (f *fakeSource) ListCards(ctx context.Context, page int) ([]linkedin.Card, error) {
	f.listCalls = append(f.listCalls, page)
	if f.listFails[page] > 0 {
		f.listFails[page]--
		return nil, errors.New("list did not render")
	}
	return f.pages[page], nil
}

func (f *fakeSource) OpenDetail(ctx context.Context, card linkedin.Card) (string, error) {
	f.detailCalls = append(f.detailCalls, card.JobID)
	if card.JobID == f.lostOn {
		return "", linkedin.ErrSessionLost
	}
	return f.detail[card.JobID], nil
}

type recordingSnapshotter struct {
	dests []string
}

func (r *recordingSnapshotter) Snapshot(ctx context.Context, dest string) error {
	r.dests = append(r.dests, dest)
	return nil
}

func card(jobID, relative string) linkedin.Card {
	return linkedin.Card{
		URL:             fmt.Sprintf("https://www.linkedin.com/jobs/view/%s/", jobID),
		JobID:           jobID,
		RoleHint:        "Role " + jobID,
		CompanyHint:     "Company " + jobID,
		AppliedRelative: relative,
	}
}

func detailHTML(role, company string) string {
	return fmt.Sprintf(`<html><body>
		<h1 class="t-24 t-bold inline">%s</h1>
		<div class="job-details-jobs-unified-top-card__company-name"><a href="/company/x/">%s</a></div>
		<div class="jobs-description__content">We build evidence pipelines for people who need receipts, at considerable scale.</div>
	</body></html>`, role, company)
}

func newTestController(t *testing.T, src Source, opts Options) (*Controller, *output.Router, *recordingSnapshotter, *state.Store) {
	t.Helper()

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	snap := &recordingSnapshotter{}
	router := output.NewRouter(t.TempDir(), snap)

	ctrl, err := New(src, router, dedupe.NewSet(), store, opts)
	require.NoError(t, err)
	return ctrl, router, snap, store
}

func TestRunVisitsPagesInDescendingOrder(t *testing.T) {
	src := &fakeSource{
		pages: map[int][]linkedin.Card{
			3: {card("1001", "11 months ago")},
			2: {card("1002", "3w ago"), card("1001", "11 months ago")},
			1: {card("1003", "totally opaque label")},
		},
		detail: map[string]string{
			"1001": detailHTML("Backend Engineer", "Acme"),
			"1002": `<html><body><h1>Data Analyst</h1></body></html>`,
			"1003": detailHTML("Platform Engineer", "Gamma"),
		},
	}
	ctrl, router, snap, store := newTestController(t, src, Options{
		StartPage: 3,
		EndPage:   1,
		Reference: testReference,
	})

	stats, err := ctrl.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, src.loginCalls)
	require.Equal(t, []int{3, 2, 1}, src.listCalls, "strictly descending, no revisits")
	require.Equal(t, []string{"1001", "1002", "1003"}, src.detailCalls, "dup on page 2 skipped")

	require.Equal(t, 3, stats.PagesVisited)
	require.Equal(t, 3, stats.Captured)
	require.Equal(t, 1, stats.CardsSkipped)
	require.Equal(t, 0, stats.Failed)

	records := router.Records()
	require.Len(t, records, 3)
	require.Len(t, snap.dests, 3, "one snapshot per appended record")

	// 1001: fully resolved
	require.Equal(t, "Acme", records[0].Company)
	require.Equal(t, "2025-02-03", records[0].AppliedDate())
	require.Equal(t, "2025-02", records[0].Bucket())
	require.Equal(t, 3, records[0].Page)

	// 1002: detail page had no description block, still captured whole
	require.Equal(t, linkedin.Unknown, records[1].DescriptionShort)
	require.Equal(t, "2025-12-13", records[1].AppliedDate())
	require.Equal(t, "2025-12", records[1].Bucket())

	// 1003: unresolvable relative string degrades to the unknown bucket
	require.Nil(t, records[2].Applied)
	require.Equal(t, "unknown", records[2].Bucket())

	persisted, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, persisted, 3)

	ids, err := store.SeenJobIDs(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1001", "1002", "1003"}, ids)
}

func TestRunRetriesListingThenTreatsPageAsEmpty(t *testing.T) {
	src := &fakeSource{
		pages: map[int][]linkedin.Card{
			2: {card("2001", "1 yr ago")},
			// page 1 stays empty forever
		},
		detail: map[string]string{
			"2001": detailHTML("SRE", "Delta"),
		},
		listFails: map[int]int{2: 2},
	}
	ctrl, router, _, _ := newTestController(t, src, Options{
		StartPage:      2,
		EndPage:        1,
		Reference:      testReference,
		ListRetries:    3,
		ListRetryDelay: time.Millisecond,
	})

	stats, err := ctrl.Run(context.Background())
	require.NoError(t, err)

	// page 2: two failures then success; page 1: three empty attempts
	require.Equal(t, []int{2, 2, 2, 1, 1, 1}, src.listCalls)
	require.Equal(t, 2, stats.PagesVisited)
	require.Equal(t, 1, stats.Captured)
	require.Len(t, router.Records(), 1)
}

func TestRunSessionLossEndsRunWithPartialResults(t *testing.T) {
	src := &fakeSource{
		pages: map[int][]linkedin.Card{
			2: {card("3001", "2 months ago"), card("3002", "2 months ago")},
			1: {card("3003", "2 months ago")},
		},
		detail: map[string]string{
			"3001": detailHTML("Engineer", "Acme"),
		},
		lostOn: "3002",
	}
	ctrl, router, _, _ := newTestController(t, src, Options{
		StartPage: 2,
		EndPage:   1,
		Reference: testReference,
	})

	stats, err := ctrl.Run(context.Background())
	require.ErrorIs(t, err, linkedin.ErrSessionLost)

	// page 1 never reached
	require.Equal(t, []int{2}, src.listCalls)
	require.Equal(t, 1, stats.Captured)
	require.Len(t, router.Records(), 1, "partial results survive")
}

func TestRunSkipsUnknownJobIDs(t *testing.T) {
	src := &fakeSource{
		pages: map[int][]linkedin.Card{
			1: {
				{URL: "https://www.linkedin.com/jobs/collections/", JobID: linkedin.UnknownJobID},
				card("4001", "4d ago"),
			},
		},
		detail: map[string]string{
			"4001": detailHTML("Engineer", "Acme"),
		},
	}
	ctrl, _, _, _ := newTestController(t, src, Options{
		StartPage: 1,
		EndPage:   1,
		Reference: testReference,
	})

	stats, err := ctrl.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.CardsSkipped)
	require.Equal(t, 1, stats.Captured)
	require.Equal(t, []string{"4001"}, src.detailCalls)
}

func TestNewRejectsInvalidPageRange(t *testing.T) {
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	router := output.NewRouter(t.TempDir(), &recordingSnapshotter{})

	_, err = New(&fakeSource{}, router, dedupe.NewSet(), store, Options{StartPage: 1, EndPage: 5})
	require.Error(t, err)

	_, err = New(&fakeSource{}, router, dedupe.NewSet(), store, Options{StartPage: 3, EndPage: 0})
	require.Error(t, err)
}
