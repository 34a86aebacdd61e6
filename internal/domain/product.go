package domain

import (
	"strconv"
	"strings"
)

// UnknownValue is the sentinel stored in string fields the dataset left empty
const UnknownValue = "Unknown"

// RawRecord is one parsed CSV row keyed by header name
type RawRecord map[string]string

// ProductRecord represents one normalized catalog entry
type ProductRecord struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Brand             string   `json:"brand"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	CategoryPath      []string `json:"categoryPath"`
	Color             string   `json:"color"`
	Material          string   `json:"material"`
	Manufacturer      string   `json:"manufacturer"`
	CountryOfOrigin   string   `json:"countryOfOrigin"`
	Price             float64  `json:"price"`
	Images            []string `json:"images"`
	PrimaryImage      string   `json:"primaryImage"`
	PackageDimensions string   `json:"packageDimensions"`
}

// DisplayImage returns the primary image, or placeholder when none was parsed
func (p *ProductRecord) DisplayImage(placeholder string) string {
	if p.PrimaryImage != "" {
		return p.PrimaryImage
	}
	return placeholder
}

// Field names a ProductRecord attribute usable for grouping, sorting and indexing
type Field string

const (
	FieldID                Field = "id"
	FieldTitle             Field = "title"
	FieldBrand             Field = "brand"
	FieldDescription       Field = "description"
	FieldCategory          Field = "category"
	FieldColor             Field = "color"
	FieldMaterial          Field = "material"
	FieldManufacturer      Field = "manufacturer"
	FieldCountryOfOrigin   Field = "countryOfOrigin"
	FieldPrice             Field = "price"
	FieldPackageDimensions Field = "packageDimensions"
)

// fieldAliases maps accepted spellings (including dataset header names) to fields
var fieldAliases = map[string]Field{
	"id":                 FieldID,
	"uniq_id":            FieldID,
	"title":              FieldTitle,
	"name":               FieldTitle,
	"brand":              FieldBrand,
	"description":        FieldDescription,
	"category":           FieldCategory,
	"categories":         FieldCategory,
	"color":              FieldColor,
	"material":           FieldMaterial,
	"manufacturer":       FieldManufacturer,
	"countryoforigin":    FieldCountryOfOrigin,
	"country_of_origin":  FieldCountryOfOrigin,
	"country":            FieldCountryOfOrigin,
	"price":              FieldPrice,
	"packagedimensions":  FieldPackageDimensions,
	"package_dimensions": FieldPackageDimensions,
}

// ParseField resolves a user-supplied field name, case-insensitively
func ParseField(name string) (Field, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// IsNumeric reports whether the field compares numerically
func (f Field) IsNumeric() bool {
	return f == FieldPrice
}

// Value returns the string form of a field. Unknown fields yield "".
func (p *ProductRecord) Value(f Field) string {
	switch f {
	case FieldID:
		return p.ID
	case FieldTitle:
		return p.Title
	case FieldBrand:
		return p.Brand
	case FieldDescription:
		return p.Description
	case FieldCategory:
		return p.Category
	case FieldColor:
		return p.Color
	case FieldMaterial:
		return p.Material
	case FieldManufacturer:
		return p.Manufacturer
	case FieldCountryOfOrigin:
		return p.CountryOfOrigin
	case FieldPrice:
		return strconv.FormatFloat(p.Price, 'f', 2, 64)
	case FieldPackageDimensions:
		return p.PackageDimensions
	}
	return ""
}

// MatchResult is one fuzzy search hit. Record points into the loaded catalog and
// must be treated as read-only.
type MatchResult struct {
	Record *ProductRecord `json:"record"`
	Score  float64        `json:"score"` // 0 is an exact match
}
