// Package reasons counts limit-up reason tags and keeps the most frequent categories.
package reasons

import (
	"sort"
	"strings"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/selection"
	"github.com/rs/zerolog"
)

// DefaultTopK is the rank whose frequency becomes the display cutoff
const DefaultTopK = 5

// Aggregator splits, counts and filters reason tags of a record set
type Aggregator struct {
	topK    int
	sortKey func(string) string
	log     zerolog.Logger
}

// NewAggregator creates an aggregator keeping categories at or above the topK-th largest count.
// A non-positive topK falls back to DefaultTopK.
func NewAggregator(topK int, log zerolog.Logger) *Aggregator {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Aggregator{
		topK:    topK,
		sortKey: PinyinKey,
		log:     log.With().Str("component", "reason_aggregator").Logger(),
	}
}

// TopK returns the configured cutoff rank
func (a *Aggregator) TopK() int {
	return a.topK
}

// Aggregate counts every (record, tag) pair and returns the categories whose count
// reaches the threshold. Ordered by count descending, then by sort key.
func (a *Aggregator) Aggregate(records []domain.Record, date time.Time) []domain.CategoryCount {
	counts := Count(records)
	if len(counts) == 0 {
		return []domain.CategoryCount{}
	}

	values := make([]int, len(counts))
	for i, c := range counts {
		values[i] = c.Count
	}
	k := min(a.topK, len(values))
	threshold := selection.KthLargest(values, k)

	kept := make([]domain.CategoryCount, 0, k)
	for _, c := range counts {
		if c.Count >= threshold {
			kept = append(kept, c)
		}
	}
	a.sort(kept)

	a.log.Debug().
		Str("date", domain.DateKey(date)).
		Int("records", len(records)).
		Int("categories", len(counts)).
		Int("threshold", threshold).
		Int("kept", len(kept)).
		Msg("Aggregated reason tags")

	return kept
}

// Count tallies tag occurrences across records in first-seen order.
func Count(records []domain.Record) []domain.CategoryCount {
	index := make(map[string]int)
	var counts []domain.CategoryCount
	for _, r := range records {
		for _, tag := range SplitTags(r.Reasons()) {
			i, ok := index[tag]
			if !ok {
				i = len(counts)
				index[tag] = i
				counts = append(counts, domain.CategoryCount{Category: tag})
			}
			counts[i].Count++
		}
	}
	return counts
}

// SplitTags splits a reason field on the separator, trimming tokens and dropping empty ones.
func SplitTags(field string) []string {
	parts := strings.Split(field, domain.ReasonSeparator)
	tags := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (a *Aggregator) sort(counts []domain.CategoryCount) {
	keys := make(map[string]string, len(counts))
	for _, c := range counts {
		keys[c.Category] = a.sortKey(c.Category)
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		ki, kj := keys[counts[i].Category], keys[counts[j].Category]
		if ki != kj {
			return ki < kj
		}
		return counts[i].Category < counts[j].Category
	})
}
