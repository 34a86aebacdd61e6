package usecase

import (
	"math/rand"
	"testing"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countryRecords(counts map[string]int, order []string) []domain.ProductRecord {
	var records []domain.ProductRecord
	for _, country := range order {
		for i := 0; i < counts[country]; i++ {
			records = append(records, domain.ProductRecord{CountryOfOrigin: country})
		}
	}
	return records
}

func TestAggregate(t *testing.T) {
	t.Run("groups by country without others", func(t *testing.T) {
		records := []domain.ProductRecord{
			{Brand: "Acme", CountryOfOrigin: "US"},
			{Brand: "Acme", CountryOfOrigin: "US"},
			{Brand: "Zed", CountryOfOrigin: "CA"},
		}

		got := Aggregate(records, ByField(domain.FieldCountryOfOrigin), 5)

		assert.Equal(t, []domain.AggregationBucket{
			{Label: "US", Count: 2},
			{Label: "CA", Count: 1},
		}, got)
	})

	t.Run("collapses tail into others", func(t *testing.T) {
		order := []string{"US", "CN", "IN", "DE", "VN", "MX"}
		counts := map[string]int{"US": 10, "CN": 8, "IN": 6, "DE": 4, "VN": 2, "MX": 1}

		got := Aggregate(countryRecords(counts, order), ByField(domain.FieldCountryOfOrigin), 5)

		require.Len(t, got, 6)
		assert.Equal(t, domain.AggregationBucket{Label: "US", Count: 10}, got[0])
		assert.Equal(t, domain.AggregationBucket{Label: "VN", Count: 2}, got[4])
		assert.Equal(t, domain.AggregationBucket{Label: domain.OthersLabel, Count: 1}, got[5])
	})

	t.Run("others equals total minus kept", func(t *testing.T) {
		order := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		counts := map[string]int{"a": 3, "b": 7, "c": 1, "d": 4, "e": 4, "f": 9, "g": 2, "h": 2, "i": 5, "j": 1}
		records := countryRecords(counts, order)

		for topN := 0; topN <= 11; topN++ {
			got := Aggregate(records, ByField(domain.FieldCountryOfOrigin), topN)
			assert.LessOrEqual(t, len(got), topN+1)

			kept := 0
			for i, b := range got {
				if b.Label == domain.OthersLabel {
					assert.Equal(t, len(got)-1, i, "others must be last")
					assert.Equal(t, len(records)-kept, b.Count)
					continue
				}
				kept += b.Count
			}
		}
	})

	t.Run("ties keep first occurrence order", func(t *testing.T) {
		records := []domain.ProductRecord{
			{Brand: "Zed"}, {Brand: "Acme"}, {Brand: "Mid"}, {Brand: "Acme"}, {Brand: "Zed"},
		}

		got := Aggregate(records, ByField(domain.FieldBrand), 8)

		assert.Equal(t, []domain.AggregationBucket{
			{Label: "Zed", Count: 2},
			{Label: "Acme", Count: 2},
			{Label: "Mid", Count: 1},
		}, got)
	})

	t.Run("empty key counts as unknown", func(t *testing.T) {
		records := []domain.ProductRecord{{Color: ""}, {Color: "Red"}, {Color: ""}}

		got := Aggregate(records, func(p *domain.ProductRecord) string { return p.Color }, 8)

		assert.Equal(t, domain.AggregationBucket{Label: domain.UnknownValue, Count: 2}, got[0])
	})

	t.Run("real others key merges into synthetic bucket", func(t *testing.T) {
		records := []domain.ProductRecord{
			{Brand: "Acme"}, {Brand: "Acme"}, {Brand: "Others"}, {Brand: "Zed"},
		}

		got := Aggregate(records, ByField(domain.FieldBrand), 1)

		assert.Equal(t, []domain.AggregationBucket{
			{Label: "Acme", Count: 2},
			{Label: domain.OthersLabel, Count: 2},
		}, got)
	})

	t.Run("empty input yields no buckets", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil, ByField(domain.FieldBrand), 5))
	})

	t.Run("negative topN keeps only others", func(t *testing.T) {
		records := []domain.ProductRecord{{Brand: "Acme"}, {Brand: "Zed"}}

		got := Aggregate(records, ByField(domain.FieldBrand), -1)

		assert.Equal(t, []domain.AggregationBucket{{Label: domain.OthersLabel, Count: 2}}, got)
	})
}

func TestAggregate_ShuffleInvariant(t *testing.T) {
	order := []string{"US", "CN", "IN", "DE", "VN", "MX", "BR"}
	counts := map[string]int{"US": 12, "CN": 9, "IN": 7, "DE": 5, "VN": 3, "MX": 2, "BR": 1}
	records := countryRecords(counts, order)
	want := Aggregate(records, ByField(domain.FieldCountryOfOrigin), 5)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.ProductRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, Aggregate(shuffled, ByField(domain.FieldCountryOfOrigin), 5))
	}
}
