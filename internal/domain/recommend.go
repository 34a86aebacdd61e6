package domain

import "time"

// RecommendRequest represents a chat recommendation request
type RecommendRequest struct {
	Query string `json:"query" binding:"required,max=1000"`
	TopK  int    `json:"topK,omitempty" binding:"gte=0,lte=50"`
}

// Recommendation is one product suggested for a query
type Recommendation struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Image   string         `json:"image"`
	Product *ProductRecord `json:"product"`
}

// RecommendResponse is the assistant's reply to a chat message
type RecommendResponse struct {
	Query   string           `json:"query"`
	Message string           `json:"message"`
	Results []Recommendation `json:"results"`
	Cached  bool             `json:"cached"`
}

// CatalogStatus describes the currently loaded catalog
type CatalogStatus struct {
	Loaded      bool      `json:"loaded"`
	Records     int       `json:"records"`
	SkippedRows int       `json:"skippedRows"`
	Version     string    `json:"version,omitempty"`
	Source      string    `json:"source,omitempty"`
	LoadedAt    time.Time `json:"loadedAt,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
}
