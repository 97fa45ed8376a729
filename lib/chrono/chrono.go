package chrono

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobproof/lib/timezone"
)

// ErrUnrecognized is returned when a relative-time string matches no known
// unit token. Callers are expected to degrade to an "unknown" bucket rather
// than treat this as fatal.
var ErrUnrecognized = errors.New("unrecognized relative time string")

// step is the calendar offset contributed by one count of a unit.
// months/years move by calendar field, weeks/days by whole days.
type step struct {
	years  int
	months int
	days   int
}

// unitSynonyms maps every token the source has been seen to emit onto its
// calendar step. Add new synonyms here, resolution logic stays untouched.
var unitSynonyms = map[string]step{
	"y":      {years: 1},
	"yr":     {years: 1},
	"yrs":    {years: 1},
	"year":   {years: 1},
	"years":  {years: 1},
	"mo":     {months: 1},
	"mos":    {months: 1},
	"month":  {months: 1},
	"months": {months: 1},
	"w":      {days: 7},
	"wk":     {days: 7},
	"wks":    {days: 7},
	"week":   {days: 7},
	"weeks":  {days: 7},
	"d":      {days: 1},
	"day":    {days: 1},
	"days":   {days: 1},
}

// phrases that carry no offset at all, e.g. shown right after applying.
var zeroOffset = map[string]bool{
	"just now": true,
	"today":    true,
	"now":      true,
}

var relativeRegex = buildRelativeRegex()

func buildRelativeRegex() *regexp.Regexp {
	tokens := make([]string, 0, len(unitSynonyms))
	for token := range unitSynonyms {
		tokens = append(tokens, token)
	}
	// longest first so "months" wins over "mo"
	sort.Slice(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	// the leading (?:^|\s) keeps single-letter tokens like "d" from
	// matching the tail of an ordinary word.
	return regexp.MustCompile(`(?:^|\s)(\d+)?\s*(` + strings.Join(tokens, "|") + `)\b`)
}

// Resolve converts a relative-time string such as "11 months ago" or "3w ago"
// into an absolute calendar date, counting backwards from ref. The result is
// truncated to midnight in ref's location. A missing magnitude means one,
// so "a month ago" equals "1 month ago".
//
// Resolve is pure: identical inputs always yield identical outputs.
func Resolve(raw string, ref time.Time) (time.Time, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return time.Time{}, ErrUnrecognized
	}
	if zeroOffset[text] {
		return timezone.Midnight(ref), nil
	}

	match := relativeRegex.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, ErrUnrecognized
	}

	magnitude := 1
	if match[1] != "" {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, ErrUnrecognized
		}
		magnitude = n
	}

	unit, ok := unitSynonyms[match[2]]
	if !ok {
		return time.Time{}, ErrUnrecognized
	}

	resolved := ref.AddDate(
		-magnitude*unit.years,
		-magnitude*unit.months,
		-magnitude*unit.days,
	)
	return timezone.Midnight(resolved), nil
}

// Bucket formats a resolved date as its YYYY-MM grouping key.
func Bucket(t time.Time) string {
	return t.Format("2006-01")
}

// UnknownBucket is the grouping key for records whose application date
// could not be resolved.
const UnknownBucket = "unknown"
