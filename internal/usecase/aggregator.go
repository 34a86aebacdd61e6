package usecase

import (
	"slices"

	"github.com/furnaiture/backend/internal/domain"
)

// KeySelector extracts the grouping key of a record
type KeySelector func(*domain.ProductRecord) string

// ByField groups on a record field
func ByField(f domain.Field) KeySelector {
	return func(p *domain.ProductRecord) string {
		return p.Value(f)
	}
}

// Aggregate counts records per key and returns at most topN+1 buckets: the
// topN largest by count (ties in first-seen order), then an "Others" bucket
// holding the rest when that rest is non-empty. Empty keys count as "Unknown".
// A real key spelled "Others" is folded into the synthetic bucket so labels
// stay unique.
func Aggregate(records []domain.ProductRecord, key KeySelector, topN int) []domain.AggregationBucket {
	if topN < 0 {
		topN = 0
	}

	counts := make(map[string]int)
	var order []string
	for i := range records {
		label := key(&records[i])
		if label == "" {
			label = domain.UnknownValue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	others := counts[domain.OthersLabel]
	buckets := make([]domain.AggregationBucket, 0, len(order))
	for _, label := range order {
		if label == domain.OthersLabel {
			continue
		}
		buckets = append(buckets, domain.AggregationBucket{Label: label, Count: counts[label]})
	}

	slices.SortStableFunc(buckets, func(a, b domain.AggregationBucket) int {
		return b.Count - a.Count
	})

	if len(buckets) > topN {
		for _, b := range buckets[topN:] {
			others += b.Count
		}
		buckets = buckets[:topN]
	}

	if others > 0 {
		buckets = append(buckets, domain.AggregationBucket{Label: domain.OthersLabel, Count: others})
	}

	return buckets
}
