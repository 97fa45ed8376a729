package output

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderBucketSummary prints the per-month record tally shown at the end of
// a run. Unknown buckets sort last so gaps stand out.
func RenderBucketSummary(w io.Writer, counts map[string]int) {
	buckets := make([]string, 0, len(counts))
	total := 0
	for bucket, n := range counts {
		buckets = append(buckets, bucket)
		total += n
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i] == "unknown" {
			return false
		}
		if buckets[j] == "unknown" {
			return true
		}
		return buckets[i] < buckets[j]
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Month", "Applications"})
	for _, bucket := range buckets {
		t.AppendRow(table.Row{bucket, counts[bucket]})
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
