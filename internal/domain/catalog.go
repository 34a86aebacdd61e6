package domain

import "time"

// Catalog is one loaded dataset. It is built once and never mutated afterwards;
// a reload produces a new Catalog.
type Catalog struct {
	Version     string          `json:"version"`
	Records     []ProductRecord `json:"-"`
	SkippedRows int             `json:"skippedRows"`
	Source      string          `json:"source"`
	LoadedAt    time.Time       `json:"loadedAt"`
}

// Len returns the number of records, treating a nil catalog as empty
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// FindByID returns the record with the given id
func (c *Catalog) FindByID(id string) (*ProductRecord, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Records {
		if c.Records[i].ID == id {
			return &c.Records[i], true
		}
	}
	return nil, false
}
