package chrono

import (
	"fmt"
	"testing"
	"time"

	"jobproof/lib/timezone"

	"github.com/stretchr/testify/require"
)

var ref = time.Date(2026, time.January, 3, 14, 22, 5, 0, timezone.Location)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location)
}

func TestResolve(t *testing.T) {
	cases := []struct {
		raw    string
		expect time.Time
	}{
		{raw: "11 months ago", expect: date(2025, time.February, 3)},
		{raw: "Applied 11mo ago", expect: date(2025, time.February, 3)},
		{raw: "Application submitted 11 months ago", expect: date(2025, time.February, 3)},
		{raw: "3w ago", expect: date(2025, time.December, 13)},
		{raw: "3 weeks ago", expect: date(2025, time.December, 13)},
		{raw: "1 yr ago", expect: date(2025, time.January, 3)},
		{raw: "2 years ago", expect: date(2024, time.January, 3)},
		{raw: "5d ago", expect: date(2025, time.December, 29)},
		{raw: "5 days ago", expect: date(2025, time.December, 29)},
		{raw: "a month ago", expect: date(2025, time.December, 3)},
		{raw: "1 month ago", expect: date(2025, time.December, 3)},
		{raw: "a week ago", expect: date(2025, time.December, 27)},
		{raw: "  2W AGO  ", expect: date(2025, time.December, 20)},
		{raw: "just now", expect: date(2026, time.January, 3)},
		{raw: "today", expect: date(2026, time.January, 3)},
		{raw: "0 days ago", expect: date(2026, time.January, 3)},
	}

	for _, test := range cases {
		got, err := Resolve(test.raw, ref)
		require.NoError(t, err, "raw=%q", test.raw)
		require.Equal(t, test.expect, got, "raw=%q", test.raw)
	}
}

func TestResolveEveryUnitSynonym(t *testing.T) {
	for token, unit := range unitSynonyms {
		for _, n := range []int{1, 2, 7, 30} {
			raw := fmt.Sprintf("%d %s ago", n, token)
			got, err := Resolve(raw, ref)
			require.NoError(t, err, "raw=%q", raw)

			expect := timezone.Midnight(ref.AddDate(-n*unit.years, -n*unit.months, -n*unit.days))
			require.Equal(t, expect, got, "raw=%q", raw)
		}
	}
}

func TestResolveUnrecognized(t *testing.T) {
	for _, raw := range []string{
		"",
		"garbage text",
		"some weird text",
		"yesterday maybe",
		"applied recently",
	} {
		_, err := Resolve(raw, ref)
		require.ErrorIs(t, err, ErrUnrecognized, "raw=%q", raw)
	}
}

func TestResolveIsPure(t *testing.T) {
	first, err := Resolve("4 months ago", ref)
	require.NoError(t, err)
	second, err := Resolve("4 months ago", ref)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBucket(t *testing.T) {
	resolved, err := Resolve("11 months ago", ref)
	require.NoError(t, err)
	require.Equal(t, "2025-02", Bucket(resolved))

	resolved, err = Resolve("3w ago", ref)
	require.NoError(t, err)
	require.Equal(t, "2025-12", Bucket(resolved))
}
