package linkedin

import (
	"fmt"
	"regexp"
)

// AppliedListURL is the first page of the applied-jobs list.
const AppliedListURL = "https://www.linkedin.com/my-items/saved-jobs/?cardType=APPLIED"

const cardsPerPage = 10

// PageURL returns the list URL for a 1-based page number. Pagination is a
// start offset appended to the base URL, ten cards per page.
func PageURL(page int) string {
	if page <= 1 {
		return AppliedListURL
	}
	return fmt.Sprintf("%s&start=%d", AppliedListURL, (page-1)*cardsPerPage)
}

var jobIDRegex = regexp.MustCompile(`/jobs/view/(\d+)`)

// JobIDFromURL extracts the stable numeric job id from a job detail URL.
// Returns UnknownJobID when the URL has an unexpected shape.
func JobIDFromURL(url string) string {
	m := jobIDRegex.FindStringSubmatch(url)
	if m == nil {
		return UnknownJobID
	}
	return m[1]
}
