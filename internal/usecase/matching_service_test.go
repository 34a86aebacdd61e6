package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func furnitureCatalog() []domain.ProductRecord {
	return []domain.ProductRecord{
		{ID: "p1", Title: "Coir Doormat", Description: "Natural fiber mat for the front porch", Category: "Rugs", Color: "Brown", Material: "Coir", Brand: "Welcome Home"},
		{ID: "p2", Title: "Modern Black Accent Chair", Description: "Upholstered chair with wooden legs", Category: "Living Room", Color: "Black", Material: "Fabric", Brand: "Acme"},
		{ID: "p3", Title: "Folding TV Tray Table", Description: "Compact table for snacks", Category: "Tables", Color: "Walnut", Material: "Wood", Brand: "Zed"},
		{ID: "p4", Title: "Ceramic Vase", Description: "Glazed vase for fresh flowers", Category: "Decor", Color: "White", Material: "Ceramic", Brand: domain.UnknownValue},
		{ID: "p5", Title: "Folding Computer Table", Description: "Laptop desk for small rooms", Category: "Office", Color: "Black", Material: "Steel", Brand: "Zed"},
	}
}

func TestNewMatchingService(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{name: "uses provided threshold", threshold: 0.25, want: 0.25},
		{name: "accepts threshold of one", threshold: 1, want: 1},
		{name: "uses default when zero", threshold: 0, want: DefaultAcceptanceThreshold},
		{name: "uses default when negative", threshold: -0.5, want: DefaultAcceptanceThreshold},
		{name: "uses default when above one", threshold: 1.5, want: DefaultAcceptanceThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMatchingService(MatchConfig{Threshold: tt.threshold})
			assert.Equal(t, tt.want, svc.Threshold())
		})
	}
}

func TestBuildIndex(t *testing.T) {
	records := furnitureCatalog()
	idx := BuildIndex(records, DefaultSearchFields)

	require.Equal(t, len(records), idx.Len())
	assert.Equal(t, []rune("modern black accent chair"), idx.entries[1][0])

	brandColumn := len(DefaultSearchFields) - 1
	assert.Nil(t, idx.entries[3][brandColumn], "Unknown brand should not be indexed")

	var nilIndex *SearchIndex
	assert.Equal(t, 0, nilIndex.Len())
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewMatchingService(MatchConfig{Threshold: DefaultAcceptanceThreshold})
	records := furnitureCatalog()
	idx := BuildIndex(records, DefaultSearchFields)

	t.Run("finds accent chair for modern black chair", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, foldText("modern black chair"), 6)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		found := false
		for i, r := range results {
			if r.Record.ID == "p2" {
				found = true
				assert.Less(t, i, 3)
				assert.LessOrEqual(t, r.Score, DefaultAcceptanceThreshold)
			}
		}
		assert.True(t, found, "accent chair should be recommended")
	})

	t.Run("nonsense query returns empty result", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, foldText("xyzxyz_nonsense_query"), 6)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("empty query returns empty result", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, "", 6)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 6)
	})

	t.Run("exact title scores zero", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, foldText("Coir Doormat"), 6)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "p1", results[0].Record.ID)
		assert.Equal(t, 0.0, results[0].Score)
	})

	t.Run("tolerates typos", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, foldText("dormat"), 6)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "p1", results[0].Record.ID)
	})

	t.Run("ties keep dataset order", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, "folding", 6)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "p3", results[0].Record.ID)
		assert.Equal(t, "p5", results[1].Record.ID)
	})

	t.Run("returns shared records", func(t *testing.T) {
		results, err := svc.Search(ctx, idx, "doormat", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Same(t, &records[0], results[0].Record)
	})

	t.Run("nil index returns empty result", func(t *testing.T) {
		results, err := svc.Search(ctx, nil, "chair", 6)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("honours canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Search(canceled, idx, "chair", 6)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSearch_BoundedAndThresholded(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})

	records := make([]domain.ProductRecord, 40)
	for i := range records {
		records[i] = domain.ProductRecord{
			ID:    fmt.Sprintf("r%d", i),
			Title: fmt.Sprintf("Oak Side Table %d", i),
		}
	}
	idx := BuildIndex(records, DefaultSearchFields)

	for _, maxResults := range []int{0, 1, 6, 100} {
		t.Run(fmt.Sprintf("max %d", maxResults), func(t *testing.T) {
			results, err := svc.Search(context.Background(), idx, "oak side table", maxResults)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(results), max(maxResults, 0))
			for _, r := range results {
				assert.LessOrEqual(t, r.Score, DefaultAcceptanceThreshold)
			}
		})
	}
}

func TestSubstringDistance(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    int
	}{
		{"chair", "modern black chair", 0},
		{"chiar", "chair", 2},
		{"chair", "", 5},
		{"", "chair", 0},
		{"doormat", "coir dormat", 1},
		{"modern black chair", "modern black accent chair", 4},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, substringDistance([]rune(tt.pattern), []rune(tt.text)))
		})
	}
}

func TestFieldScore(t *testing.T) {
	assert.Equal(t, 0.0, fieldScore([]rune("tray"), []rune("tv tray table")))
	assert.Equal(t, 1.0, fieldScore([]rune("sofa"), []rune("")))
	assert.InDelta(t, 0.25, fieldScore([]rune("sofa"), []rune("soda")), 1e-9)
}
