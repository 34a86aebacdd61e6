package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/furnaiture/backend/internal/domain"
)

// DefaultPageSize is the number of rows the analytics table shows
const DefaultPageSize = 10

// sortableFields are the table's sortable columns
var sortableFields = map[domain.Field]bool{
	domain.FieldID:                true,
	domain.FieldTitle:             true,
	domain.FieldBrand:             true,
	domain.FieldDescription:       true,
	domain.FieldCategory:          true,
	domain.FieldColor:             true,
	domain.FieldMaterial:          true,
	domain.FieldManufacturer:      true,
	domain.FieldCountryOfOrigin:   true,
	domain.FieldPrice:             true,
	domain.FieldPackageDimensions: true,
}

// Project returns the first pageSize records ordered by state. The sort is
// stable and records is never modified. An empty state key keeps dataset
// order; pageSize <= 0 means DefaultPageSize.
func Project(records []domain.ProductRecord, state domain.SortState, pageSize int) ([]domain.ProductRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []domain.ProductRecord{}
	}

	if state.Key != "" {
		if !sortableFields[state.Key] {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, state.Key)
		}
		compare := comparatorFor(state.Key)
		if state.Direction == domain.SortDescending {
			slices.SortStableFunc(sorted, func(a, b domain.ProductRecord) int { return compare(&b, &a) })
		} else {
			slices.SortStableFunc(sorted, func(a, b domain.ProductRecord) int { return compare(&a, &b) })
		}
	}

	if len(sorted) > pageSize {
		sorted = sorted[:pageSize:pageSize]
	}
	return sorted, nil
}

// comparatorFor compares numerically for numeric fields and lexically otherwise
func comparatorFor(f domain.Field) func(a, b *domain.ProductRecord) int {
	if f.IsNumeric() {
		return func(a, b *domain.ProductRecord) int { return cmp.Compare(a.Price, b.Price) }
	}
	return func(a, b *domain.ProductRecord) int { return strings.Compare(a.Value(f), b.Value(f)) }
}
