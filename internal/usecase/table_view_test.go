package usecase

import (
	"fmt"
	"testing"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []domain.ProductRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func tableRecords() []domain.ProductRecord {
	return []domain.ProductRecord{
		{ID: "a", Title: "Sofa", Brand: "Zed", Price: 499.99},
		{ID: "b", Title: "Lamp", Brand: "Acme", Price: 25},
		{ID: "c", Title: "Rug", Brand: "Acme", Price: 120},
		{ID: "d", Title: "Desk", Brand: "Mid", Price: 9.5},
		{ID: "e", Title: "Bed", Brand: "Zed", Price: 120},
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		state domain.SortState
		want  []string
	}{
		{name: "keeps dataset order without key", state: domain.SortState{}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "price ascending is numeric", state: domain.SortState{Key: domain.FieldPrice, Direction: domain.SortAscending}, want: []string{"d", "b", "c", "e", "a"}},
		{name: "price descending keeps ties stable", state: domain.SortState{Key: domain.FieldPrice, Direction: domain.SortDescending}, want: []string{"a", "c", "e", "b", "d"}},
		{name: "brand ascending keeps ties stable", state: domain.SortState{Key: domain.FieldBrand, Direction: domain.SortAscending}, want: []string{"b", "c", "d", "a", "e"}},
		{name: "title descending", state: domain.SortState{Key: domain.FieldTitle, Direction: domain.SortDescending}, want: []string{"a", "c", "b", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tableRecords(), tt.state, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	records := tableRecords()
	before := ids(records)

	_, err := Project(records, domain.SortState{Key: domain.FieldPrice, Direction: domain.SortDescending}, 10)
	require.NoError(t, err)

	assert.Equal(t, before, ids(records))
}

func TestProject_Idempotent(t *testing.T) {
	state := domain.SortState{Key: domain.FieldBrand, Direction: domain.SortAscending}

	once, err := Project(tableRecords(), state, 10)
	require.NoError(t, err)
	twice, err := Project(once, state, 10)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestProject_PageSize(t *testing.T) {
	records := make([]domain.ProductRecord, 25)
	for i := range records {
		records[i] = domain.ProductRecord{ID: fmt.Sprintf("r%02d", i)}
	}

	got, err := Project(records, domain.SortState{}, 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultPageSize)

	got, err = Project(records[:3], domain.SortState{}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = Project(nil, domain.SortState{}, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProject_UnknownField(t *testing.T) {
	_, err := Project(tableRecords(), domain.SortState{Key: "weight"}, 10)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}
