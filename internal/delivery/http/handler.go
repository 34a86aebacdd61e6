package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/logging"
	"github.com/gin-gonic/gin"
)

// defaultDistributionTop is used when /distribution gets no ?top=
const defaultDistributionTop = 5

// CatalogUseCase is the catalog behaviour the handlers depend on
type CatalogUseCase interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Status() domain.CatalogStatus
	Recommend(ctx context.Context, request *domain.RecommendRequest) (*domain.RecommendResponse, error)
	Summary(ctx context.Context) (*domain.AnalyticsSummary, error)
	Distribution(ctx context.Context, field string, topN int) ([]domain.AggregationBucket, error)
	Table(ctx context.Context, state domain.SortState) (*domain.TablePage, error)
	Product(ctx context.Context, id string) (*domain.ProductRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog CatalogUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog CatalogUseCase) *Handler {
	return &Handler{catalog: catalog}
}

// HealthCheck returns the health status of the API and the catalog state
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": "furnaiture-backend",
		"version": "1.0.0",
	}

	if h.catalog != nil {
		status := h.catalog.Status()
		if !status.Loaded {
			response["status"] = "degraded"
		}
		response["catalog"] = status
	}

	c.JSON(http.StatusOK, response)
}

// Recommend answers a chat message with matching products
func (h *Handler) Recommend(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.RecommendRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", domain.ErrInvalidRequest, err)})
		return
	}

	response, err := h.catalog.Recommend(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Summary returns the dashboard distributions
func (h *Handler) Summary(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	summary, err := h.catalog.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Distribution groups the catalog by the :field path parameter
func (h *Handler) Distribution(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	top := defaultDistributionTop
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be an integer"})
			return
		}
		top = n
	}

	buckets, err := h.catalog.Distribution(c.Request.Context(), c.Param("field"), top)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"field":   c.Param("field"),
		"buckets": buckets,
	})
}

// Products returns the first table page. ?sort and ?direction give the
// current ordering; ?toggle applies a column header click to it.
func (h *Handler) Products(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	state, err := parseSortState(c.Query("sort"), c.Query("direction"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if toggle := c.Query("toggle"); toggle != "" {
		field, ok := domain.ParseField(toggle)
		if !ok {
			h.respondError(c, domain.ErrUnknownField)
			return
		}
		state = state.Toggle(field)
	}

	page, err := h.catalog.Table(c.Request.Context(), state)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Product returns one catalog record
func (h *Handler) Product(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ReloadCatalog fetches the dataset again and swaps the catalog
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if _, err := h.catalog.Load(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.catalog.Status())
}

// ready writes a 503 when no catalog service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog service not configured"})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDatasetUnavailable), errors.Is(err, domain.ErrCatalogNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrDatasetUnavailable.Error()})
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request canceled"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	_ = c.Error(err)
}

// parseSortState reads ?sort and ?direction. An empty sort keeps dataset order.
func parseSortState(sortKey, direction string) (domain.SortState, error) {
	dir, ok := domain.ParseSortDirection(direction)
	if !ok {
		return domain.SortState{}, domain.ErrInvalidRequest
	}
	if sortKey == "" {
		return domain.SortState{}, nil
	}

	field, ok := domain.ParseField(sortKey)
	if !ok {
		return domain.SortState{}, domain.ErrUnknownField
	}
	return domain.SortState{Key: field, Direction: dir}, nil
}
