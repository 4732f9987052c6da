// Package ranking implements the selection policies the aggregator uses for
// "top language" and "top N" answers: frequency counting with a first-seen
// tie-break, and stable descending selection of the N largest groups.
package ranking

import "sort"

// Counter counts string labels while remembering the order in which each
// label was first seen. The tie-break contract depends on that order: when
// several labels share the maximum count, the one that appeared first wins,
// so counts must not live in a bare map (map iteration order would make the
// answer flap between runs).
type Counter struct {
	order  []string
	counts map[string]int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add records one occurrence of label.
func (c *Counter) Add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// Len returns the number of distinct labels seen.
func (c *Counter) Len() int {
	return len(c.order)
}

// Labels returns the distinct labels in first-seen order.
func (c *Counter) Labels() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// MostCommon returns the most frequent label. Ties go to the label seen
// first. The second return is false when nothing has been counted.
func (c *Counter) MostCommon() (string, bool) {
	if len(c.order) == 0 {
		return "", false
	}

	best := c.order[0]
	for _, label := range c.order[1:] {
		if c.counts[label] > c.counts[best] {
			best = label
		}
	}
	return best, true
}

// TopN sorts items descending by metric and returns at most limit of them.
// The sort is stable, so items tied on the metric keep their input order.
// For store-backed callers that is the deterministic ingest order.
func TopN[T any](items []T, limit int, metric func(T) float64) []T {
	out := make([]T, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return metric(out[i]) > metric(out[j])
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
