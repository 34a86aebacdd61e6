package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/infrastructure/dataset"
	"github.com/furnaiture/backend/internal/logging"
	"github.com/furnaiture/backend/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Assistant replies shown above the product cards
const (
	MessageMatches   = "Based on your preferences, here are some items that might suit your taste and style:"
	MessageNoMatches = "I couldn't find an exact match, but try describing your preferences differently (e.g., 'modern black chair', 'doormat', 'tv tray', 'folding computer table')."
)

// maxTopK bounds caller-supplied result counts
const maxTopK = 50

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SearchFields       []domain.Field
	Threshold          float64
	MaxResults         int
	CacheTTL           time.Duration
	LoadTimeout        time.Duration
	CountryTopN        int
	BrandTopN          int
	ColorTopN          int
	PageSize           int
	PlaceholderImage   string
	EnableDebugLogging bool
}

// snapshot pairs a loaded catalog with its search index. Both are immutable.
type snapshot struct {
	catalog *domain.Catalog
	index   *SearchIndex
}

// loadState is swapped atomically on every finished load
type loadState struct {
	snap *snapshot
	err  error
}

// cachedHit is the cache encoding of one match: a record position, not the record
type cachedHit struct {
	Pos   int     `json:"p"`
	Score float64 `json:"s"`
}

// CatalogService owns the loaded catalog and serves searches, analytics and
// table views over it
type CatalogService struct {
	source       domain.DatasetSource
	cache        domain.CacheRepository
	matcher      *MatchingService
	preprocessor *QueryPreprocessor
	config       CatalogServiceConfig

	loads singleflight.Group
	state atomic.Pointer[loadState]
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	source domain.DatasetSource,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
) *CatalogService {
	if len(config.SearchFields) == 0 {
		config.SearchFields = DefaultSearchFields
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 6
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 10 * time.Minute
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = 30 * time.Second
	}
	if config.CountryTopN <= 0 {
		config.CountryTopN = 5
	}
	if config.BrandTopN <= 0 {
		config.BrandTopN = 8
	}
	if config.ColorTopN <= 0 {
		config.ColorTopN = 8
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.PlaceholderImage == "" {
		config.PlaceholderImage = "background7.jpg"
	}

	return &CatalogService{
		source: source,
		cache:  cache,
		matcher: NewMatchingService(MatchConfig{
			Threshold:          config.Threshold,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		preprocessor: NewQueryPreprocessor(config.EnableDebugLogging),
		config:       config,
	}
}

// Load fetches, parses, normalizes and indexes the dataset, then replaces the
// current catalog. Calls made while a load is running wait for that load
// instead of starting another. A failed load leaves no catalog in place.
//
// The load itself is detached from ctx and bounded by LoadTimeout: a caller
// that gives up gets ctx.Err() back while the load runs to completion for
// everyone else.
func (s *CatalogService) Load(ctx context.Context) (*domain.Catalog, error) {
	results := s.loads.DoChan("catalog", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.LoadTimeout)
		defer cancel()
		return s.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		logging.Ctx(ctx).Warn().Err(ctx.Err()).Msg("stopped waiting for catalog load")
		return nil, ctx.Err()
	case res := <-results:
		if res.Shared {
			logging.Ctx(ctx).Debug().Msg("joined in-flight catalog load")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Catalog), nil
	}
}

func (s *CatalogService) load(ctx context.Context) (*domain.Catalog, error) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Str("source", s.source.Location()).Logger()

	catalog, skipped, err := s.readCatalog(ctx)
	metrics.RecordLoad(time.Since(start), catalog.Len(), skipped, err)
	if err != nil {
		s.purgeVersion(s.state.Swap(&loadState{err: err}))
		log.Error().Err(err).Msg("catalog load failed")
		return nil, err
	}

	index := BuildIndex(catalog.Records, s.config.SearchFields)
	previous := s.state.Swap(&loadState{snap: &snapshot{catalog: catalog, index: index}})
	s.purgeVersion(previous)

	log.Info().
		Str("version", catalog.Version).
		Int("records", catalog.Len()).
		Int("skipped", skipped).
		Dur("took", time.Since(start)).
		Msg("catalog loaded")

	return catalog, nil
}

func (s *CatalogService) readCatalog(ctx context.Context) (*domain.Catalog, int, error) {
	body, err := s.source.Open(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrDatasetUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
		}
		return nil, 0, err
	}
	defer body.Close()

	raws, stats, err := dataset.ParseRows(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}

	return &domain.Catalog{
		Version:     uuid.NewString(),
		Records:     dataset.MapAll(raws),
		SkippedRows: stats.Malformed,
		Source:      s.source.Location(),
		LoadedAt:    time.Now().UTC(),
	}, stats.Malformed, nil
}

// prefixDeleter is implemented by caches that can drop a whole key range
type prefixDeleter interface {
	DeletePrefix(prefix string) int
}

// purgeVersion drops cached searches of a replaced snapshot
func (s *CatalogService) purgeVersion(previous *loadState) {
	if previous == nil || previous.snap == nil {
		return
	}
	purger, ok := s.cache.(prefixDeleter)
	if !ok {
		return
	}
	removed := purger.DeletePrefix(searchKeyPrefix(previous.snap.catalog.Version))
	logging.Debug().Int("removed", removed).Msg("purged cached searches of replaced catalog")
}

// searchKeyPrefix is the cache key prefix shared by one catalog version
func searchKeyPrefix(version string) string {
	return "search:" + version + ":"
}

// current returns the loaded snapshot, or the reason there is none
func (s *CatalogService) current() (*snapshot, error) {
	st := s.state.Load()
	if st == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	if st.snap == nil {
		return nil, st.err
	}
	return st.snap, nil
}

// Catalog returns the loaded catalog
func (s *CatalogService) Catalog() (*domain.Catalog, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.catalog, nil
}

// Status reports the catalog state for health checks
func (s *CatalogService) Status() domain.CatalogStatus {
	st := s.state.Load()
	if st == nil {
		return domain.CatalogStatus{}
	}
	if st.snap == nil {
		status := domain.CatalogStatus{}
		if st.err != nil {
			status.LastError = st.err.Error()
		}
		return status
	}

	c := st.snap.catalog
	return domain.CatalogStatus{
		Loaded:      true,
		Records:     c.Len(),
		SkippedRows: c.SkippedRows,
		Version:     c.Version,
		Source:      c.Source,
		LoadedAt:    c.LoadedAt,
	}
}

// Recommend answers a chat message with the best matching products.
// No match is a normal reply carrying the fallback message.
func (s *CatalogService) Recommend(ctx context.Context, request *domain.RecommendRequest) (*domain.RecommendResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	topK := request.TopK
	if topK <= 0 {
		topK = s.config.MaxResults
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	query := s.preprocessor.PreprocessQuery(request.Query)
	cacheKey := fmt.Sprintf("%s%d:%s", searchKeyPrefix(snap.catalog.Version), topK, query)

	start := time.Now()
	matches, cached := s.getFromCache(ctx, cacheKey, snap)
	if !cached {
		matches, err = s.matcher.Search(ctx, snap.index, query, topK)
		if err != nil {
			return nil, err
		}
		s.setInCache(ctx, cacheKey, snap, matches)
	}
	metrics.RecordSearch(time.Since(start), len(matches))

	logging.Ctx(ctx).Debug().
		Str("query", query).
		Int("results", len(matches)).
		Bool("cached", cached).
		Msg("recommendation served")

	response := &domain.RecommendResponse{
		Query:   request.Query,
		Message: MessageNoMatches,
		Results: make([]domain.Recommendation, len(matches)),
		Cached:  cached,
	}
	if len(matches) > 0 {
		response.Message = MessageMatches
	}
	for i, m := range matches {
		response.Results[i] = domain.Recommendation{
			ID:      m.Record.ID,
			Score:   m.Score,
			Image:   m.Record.DisplayImage(s.config.PlaceholderImage),
			Product: m.Record,
		}
	}

	return response, nil
}

// getFromCache rehydrates cached hits against the snapshot's own records
func (s *CatalogService) getFromCache(ctx context.Context, key string, snap *snapshot) ([]domain.MatchResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var hits []cachedHit
	if err := json.Unmarshal(payload, &hits); err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	records := snap.catalog.Records
	matches := make([]domain.MatchResult, 0, len(hits))
	for _, h := range hits {
		if h.Pos < 0 || h.Pos >= len(records) {
			metrics.CacheMisses.Inc()
			return nil, false
		}
		matches = append(matches, domain.MatchResult{Record: &records[h.Pos], Score: h.Score})
	}

	metrics.CacheHits.Inc()
	return matches, true
}

// setInCache stores match positions; failures only cost a future cache miss
func (s *CatalogService) setInCache(ctx context.Context, key string, snap *snapshot, matches []domain.MatchResult) {
	if s.cache == nil {
		return
	}

	hits := make([]cachedHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, cachedHit{Pos: positionOf(snap.catalog.Records, m.Record), Score: m.Score})
	}

	payload, err := json.Marshal(hits)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("encode search cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.config.CacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("store search cache entry")
	}
}

// positionOf finds the index of a record pointer inside records
func positionOf(records []domain.ProductRecord, record *domain.ProductRecord) int {
	for i := range records {
		if &records[i] == record {
			return i
		}
	}
	return -1
}

// Summary computes the dashboard distributions
func (s *CatalogService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	records := snap.catalog.Records
	return &domain.AnalyticsSummary{
		TotalProducts: len(records),
		Countries:     Aggregate(records, ByField(domain.FieldCountryOfOrigin), s.config.CountryTopN),
		Brands:        Aggregate(records, ByField(domain.FieldBrand), s.config.BrandTopN),
		Colors:        Aggregate(records, ByField(domain.FieldColor), s.config.ColorTopN),
	}, nil
}

// Distribution groups the catalog by any field
func (s *CatalogService) Distribution(ctx context.Context, fieldName string, topN int) ([]domain.AggregationBucket, error) {
	field, ok := domain.ParseField(fieldName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, fieldName)
	}
	if topN <= 0 || topN > maxTopK {
		return nil, fmt.Errorf("%w: top must be between 1 and %d", domain.ErrInvalidRequest, maxTopK)
	}

	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	return Aggregate(snap.catalog.Records, ByField(field), topN), nil
}

// Table returns the first page of the catalog in the requested order
func (s *CatalogService) Table(ctx context.Context, state domain.SortState) (*domain.TablePage, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	rows, err := Project(snap.catalog.Records, state, s.config.PageSize)
	if err != nil {
		return nil, err
	}

	return &domain.TablePage{
		Sort:  state,
		Rows:  rows,
		Total: snap.catalog.Len(),
	}, nil
}

// Product looks a record up by id
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.ProductRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	record, ok := snap.catalog.FindByID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return record, nil
}
