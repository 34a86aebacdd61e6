package domain

import "strings"

// OthersLabel is the label of the synthetic bucket collecting the aggregation tail
const OthersLabel = "Others"

// AggregationBucket is a (label, count) pair produced by grouping records
type AggregationBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AnalyticsSummary holds the dashboard distributions
type AnalyticsSummary struct {
	TotalProducts int                 `json:"totalProducts"`
	Countries     []AggregationBucket `json:"countries"`
	Brands        []AggregationBucket `json:"brands"`
	Colors        []AggregationBucket `json:"colors"`
}

// SortDirection is "asc" or "desc"
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection accepts "asc"/"desc" in any case; empty means ascending
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return SortAscending, true
	case "desc":
		return SortDescending, true
	}
	return "", false
}

// SortState is the table's current ordering. A zero Key means dataset order.
type SortState struct {
	Key       Field         `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Toggle returns the state after a column header click: the same key flips the
// direction, a different key starts ascending.
func (s SortState) Toggle(key Field) SortState {
	if s.Key == key {
		if s.Direction == SortDescending {
			return SortState{Key: key, Direction: SortAscending}
		}
		return SortState{Key: key, Direction: SortDescending}
	}
	return SortState{Key: key, Direction: SortAscending}
}

// TablePage is the projected table view
type TablePage struct {
	Sort  SortState       `json:"sort"`
	Rows  []ProductRecord `json:"rows"`
	Total int             `json:"total"`
}
