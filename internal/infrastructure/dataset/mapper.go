package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/logging"
	"github.com/goccy/go-json"
)

// Dataset column names
const (
	ColumnID                = "uniq_id"
	ColumnTitle             = "title"
	ColumnBrand             = "brand"
	ColumnDescription       = "description"
	ColumnPrice             = "price"
	ColumnCategories        = "categories"
	ColumnImages            = "images"
	ColumnManufacturer      = "manufacturer"
	ColumnPackageDimensions = "package_dimensions"
	ColumnCountryOfOrigin   = "country_of_origin"
	ColumnMaterial          = "material"
	ColumnColor             = "color"
)

// urlKeys are the object keys accepted as an image URL, in priority order
var urlKeys = []string{"url", "src", "href", "link"}

// MapToProduct converts one raw row into a ProductRecord. ordinal is the row's
// position in the load and seeds the id when the dataset has none. Never fails.
func MapToProduct(raw domain.RawRecord, ordinal int) domain.ProductRecord {
	images, primary := parseImages(raw[ColumnImages])
	categoryPath, _ := decodeQuotedList(raw[ColumnCategories])

	id := raw[ColumnID]
	if id == "" {
		id = strconv.Itoa(ordinal)
	}

	return domain.ProductRecord{
		ID:                id,
		Title:             orUnknown(raw[ColumnTitle]),
		Brand:             orUnknown(raw[ColumnBrand]),
		Description:       orUnknown(raw[ColumnDescription]),
		Category:          orUnknown(raw[ColumnCategories]),
		CategoryPath:      categoryPath,
		Color:             orUnknown(raw[ColumnColor]),
		Material:          orUnknown(raw[ColumnMaterial]),
		Manufacturer:      orUnknown(raw[ColumnManufacturer]),
		CountryOfOrigin:   orUnknown(raw[ColumnCountryOfOrigin]),
		Price:             parsePrice(raw[ColumnPrice]),
		Images:            images,
		PrimaryImage:      primary,
		PackageDimensions: raw[ColumnPackageDimensions],
	}
}

// MapAll normalizes a whole load and makes ids unique within it. A repeated id
// falls back to the row ordinal, then to "<id>-<ordinal>".
func MapAll(raws []domain.RawRecord) []domain.ProductRecord {
	products := make([]domain.ProductRecord, len(raws))
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		p := MapToProduct(raw, i)
		if seen[p.ID] {
			original := p.ID
			p.ID = strconv.Itoa(i)
			for n := 0; seen[p.ID]; n++ {
				p.ID = fmt.Sprintf("%s-%d", original, i+n)
			}
			logging.Debug().Str("id", original).Str("replacement", p.ID).Msg("duplicate product id")
		}
		seen[p.ID] = true
		products[i] = p
	}

	return products
}

func orUnknown(s string) string {
	if s == "" {
		return domain.UnknownValue
	}
	return s
}

// parsePrice parses a decimal price, tolerating a currency symbol and
// thousands separators. Anything else, or a negative value, is 0.
func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// parseImages returns every decoded image URL plus the primary one, which is
// the first element's URL trimmed or "" when the field cannot be decoded.
func parseImages(field string) ([]string, string) {
	items, ok := decodeQuotedList(field)
	if !ok || len(items) == 0 {
		return []string{}, ""
	}

	images := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			images = append(images, item)
		}
	}
	return images, items[0]
}

// decodeQuotedList decodes the dataset's list encoding, a JSON-like array
// written with single quotes such as "['a', 'b']". Elements may be strings
// or objects carrying a URL key; each is returned trimmed. This is the one
// place that knows about the encoding.
func decodeQuotedList(field string) ([]string, bool) {
	field = strings.TrimSpace(field)
	if field == "" {
		return []string{}, false
	}

	var raw []interface{}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(field, "'", `"`)), &raw); err != nil {
		return []string{}, false
	}

	out := make([]string, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case string:
			out[i] = strings.TrimSpace(v)
		case map[string]interface{}:
			for _, key := range urlKeys {
				if s, ok := v[key].(string); ok {
					out[i] = strings.TrimSpace(s)
					break
				}
			}
		}
	}
	return out, true
}
