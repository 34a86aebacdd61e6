package domain

import "errors"

var (
	// ErrDatasetUnavailable is returned when the dataset could not be fetched or read
	ErrDatasetUnavailable = errors.New("no data available")

	// ErrCatalogNotLoaded is returned when an operation needs a catalog before any load succeeded
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrProductNotFound is returned when a product id is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownField is returned when a sort or grouping field does not exist
	ErrUnknownField = errors.New("unknown product field")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
