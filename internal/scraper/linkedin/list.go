package linkedin

import (
	"regexp"
	"strings"

	"jobproof/lib/htmlutil"
	"jobproof/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// relativeTimeRegex matches the applied-relative label wherever it appears in
// a card or detail page, e.g. "11 months ago", "Applied 2w ago", "a month ago".
var relativeTimeRegex = regexp.MustCompile(
	`(?i)(?:\d+\s*|an?\s+)(?:mos?|months?|yrs?|years?|wks?|weeks?|w|days?|d)\s*ago`)

// selectors observed on the applied-jobs list page. The layout drifts, keep
// these ordered from newest to oldest.
const (
	cardContainerSelector = `div[class*='linked-area']`
	cardAnchorSelector    = `a[href*='/jobs/view/']`
	cardTitleSelector     = `div.t-roman.t-sans`
	cardCompanySelector   = `div.t-14.t-black.t-normal`
)

// ListReadySelector matches an element that only exists once the applied-jobs
// list has actually rendered; the session waits on it after login and after
// each list navigation.
const ListReadySelector = cardContainerSelector + " " + cardAnchorSelector

// non-company lines on a card: locations, work arrangements, status labels.
var cardNoiseRegex = regexp.MustCompile(
	`(?i)\b(singapore|remote|hybrid|on-site|full-time|part-time|contract|internship|ago)\b`)

// ParseCards extracts the job cards visible on a rendered list page. Every
// field except the URL is best-effort: a card that only yields an anchor is
// still returned, with hints left empty. Cards without a recognizable job id
// are dropped since they cannot be deduplicated or filed.
func ParseCards(html string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var cards []Card
	seen := map[string]bool{}

	doc.Find(ListReadySelector).Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}
		jobID := JobIDFromURL(href)
		if jobID == UnknownJobID || seen[jobID] {
			return
		}
		seen[jobID] = true

		container := anchor.Closest(cardContainerSelector)
		if container.Length() == 0 {
			container = anchor
		}

		card := Card{
			URL:   href,
			JobID: jobID,
		}

		titleDiv := container.Find(cardTitleSelector).First()
		card.RoleHint = htmlutil.Text(titleDiv)
		if card.RoleHint == "" {
			card.RoleHint = htmlutil.Text(anchor)
		}

		// company is typically the next sibling block after the title
		card.CompanyHint = htmlutil.Text(titleDiv.NextAllFiltered(cardCompanySelector).First())

		cardText := textutil.CollapseWhitespace(container.Text())
		card.AppliedRelative = relativeTimeRegex.FindString(cardText)

		if card.CompanyHint == "" {
			card.CompanyHint = guessCompanyFromCardText(container.Text(), card.RoleHint)
		}

		cards = append(cards, card)
	})

	return cards, nil
}

// guessCompanyFromCardText falls back to line heuristics when the DOM-based
// company lookup finds nothing: the first line that is neither the role, nor
// a relative-time label, nor location/worktype noise.
func guessCompanyFromCardText(cardText, roleHint string) string {
	for _, line := range strings.Split(cardText, "\n") {
		line = textutil.CollapseWhitespace(line)
		if line == "" || line == roleHint {
			continue
		}
		if cardNoiseRegex.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}
