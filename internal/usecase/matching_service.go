package usecase

import (
	"context"
	"sort"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/logging"
)

// DefaultAcceptanceThreshold is the highest score accepted as a match (0 = exact)
const DefaultAcceptanceThreshold = 0.4

// DefaultSearchFields are the record fields the chat search indexes
var DefaultSearchFields = []domain.Field{
	domain.FieldTitle,
	domain.FieldDescription,
	domain.FieldCategory,
	domain.FieldColor,
	domain.FieldMaterial,
	domain.FieldBrand,
}

// SearchIndex holds case-folded field text for every record. It shares the
// records slice it was built from and never modifies it.
type SearchIndex struct {
	records []domain.ProductRecord
	fields  []domain.Field
	entries [][][]rune // entries[record][field], nil when the field is not indexed
}

// BuildIndex folds the indexed fields of every record once. Fields holding the
// "Unknown" sentinel are not indexed so that the word "unknown" does not match
// every incomplete record.
func BuildIndex(records []domain.ProductRecord, fields []domain.Field) *SearchIndex {
	idx := &SearchIndex{
		records: records,
		fields:  append([]domain.Field(nil), fields...),
		entries: make([][][]rune, len(records)),
	}

	for i := range records {
		row := make([][]rune, len(fields))
		for j, f := range fields {
			value := records[i].Value(f)
			if value == "" || value == domain.UnknownValue {
				continue
			}
			row[j] = []rune(foldText(value))
		}
		idx.entries[i] = row
	}

	return idx
}

// Len returns the number of indexed records
func (idx *SearchIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.records)
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Threshold          float64
	EnableDebugLogging bool
}

// MatchingService ranks catalog records against a free-text query
type MatchingService struct {
	threshold          float64
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultAcceptanceThreshold
	}

	return &MatchingService{
		threshold:          threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Threshold returns the acceptance threshold in use
func (s *MatchingService) Threshold() float64 {
	return s.threshold
}

// Search returns up to maxResults records scoring at or below the threshold,
// best first, dataset order among equal scores. query must already be folded
// (see QueryPreprocessor). An empty query or no match yields an empty slice.
func (s *MatchingService) Search(
	ctx context.Context,
	idx *SearchIndex,
	query string,
	maxResults int,
) ([]domain.MatchResult, error) {
	results := []domain.MatchResult{}
	if idx == nil || query == "" || maxResults <= 0 {
		return results, nil
	}

	pattern := []rune(query)

	type candidate struct {
		pos   int
		score float64
	}
	var candidates []candidate

	for i, row := range idx.entries {
		if i%64 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		score, ok := s.scoreRecord(pattern, row)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{pos: i, score: score})

		if s.enableDebugLogging {
			logging.Debug().
				Str("query", query).
				Str("id", idx.records[i].ID).
				Float64("score", score).
				Msg("candidate accepted")
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score < candidates[b].score
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	results = make([]domain.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.MatchResult{Record: &idx.records[c.pos], Score: c.score}
	}
	return results, nil
}

// scoreRecord returns the best (lowest) field score and whether it passes the threshold
func (s *MatchingService) scoreRecord(pattern []rune, row [][]rune) (float64, bool) {
	best := 1.0
	found := false

	for _, text := range row {
		if text == nil {
			continue
		}
		score := fieldScore(pattern, text)
		if !found || score < best {
			best = score
			found = true
		}
		if best == 0 {
			break
		}
	}

	return best, found && best <= s.threshold
}

// fieldScore is the approximate-substring edit distance of pattern inside
// text, normalized by the pattern length and capped at 1.
func fieldScore(pattern, text []rune) float64 {
	if len(pattern) == 0 {
		return 0
	}
	d := substringDistance(pattern, text)
	if d >= len(pattern) {
		return 1
	}
	return float64(d) / float64(len(pattern))
}

// substringDistance is the minimum Levenshtein distance between pattern and
// any substring of text (Sellers' variant: a match may start and end anywhere
// in text at no cost).
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	if len(text) == 0 {
		return m
	}

	// Two columns over the pattern, one step per text rune
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	best := m
	for j := 1; j <= len(text); j++ {
		curr[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[i] = min(
				prev[i-1]+cost, // substitution
				curr[i-1]+1,    // pattern rune missing from text
				prev[i]+1,      // extra text rune
			)
		}
		if curr[m] < best {
			best = curr[m]
			if best == 0 {
				return 0
			}
		}
		prev, curr = curr, prev
	}

	return best
}
