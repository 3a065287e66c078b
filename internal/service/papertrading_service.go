package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/metrics"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
)

// Where the current catalog generation came from.
const (
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// CatalogLoader loads a fresh catalog generation from the published source.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogCache persists the last loaded generation across restarts.
type CatalogCache interface {
	ReplaceCatalog(ctx context.Context, c *catalog.Catalog) error
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// PaperTradingService serves the paper-trading catalog and the selection sessions built on it.
//
// The service holds one catalog generation at a time. A generation is never modified once
// installed; a successful refresh installs a new one and discards every session, since a
// Selection only makes sense against the dates it was created for.
type PaperTradingService struct {
	loader  CatalogLoader
	cache   CatalogCache
	metrics *metrics.Registry
	now     func() time.Time

	refreshMu sync.Mutex // serialises Refresh

	mu          sync.RWMutex
	current     *generation
	lastID      uint64
	lastError   string
	lastAttempt time.Time
	sessions    map[string]*session
}

// NewPaperTradingService creates a new PaperTradingService. The service starts without a
// catalog; call Warm and/or Refresh before serving.
func NewPaperTradingService(loader CatalogLoader, cache CatalogCache, m *metrics.Registry) *PaperTradingService {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &PaperTradingService{
		loader:   loader,
		cache:    cache,
		metrics:  m,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Warm installs the cached catalog when no generation is loaded yet.
// Returns apperrors.ErrCatalogNotCached when the cache is empty.
func (s *PaperTradingService) Warm(ctx context.Context) error {
	if s.cache == nil {
		return apperrors.ErrCatalogNotCached
	}
	c, err := s.cache.LoadCatalog(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrCatalogNotCached) {
			return err
		}
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadCatalog, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil
	}
	s.installLocked(c, SourceCache)
	s.metrics.CatalogLoads.WithLabelValues(metrics.ResultCacheHit).Inc()
	return nil
}

// Refresh loads the catalog from the source and installs it as a new generation.
//
// When the load fails the previous generation stays in place and the error is reported
// by Status until the next successful refresh. A successful load is written to the cache;
// a cache failure is only logged.
func (s *PaperTradingService) Refresh(ctx context.Context) (model.CatalogStatus, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	started := s.now()
	c, err := s.loader.Load(ctx)

	s.mu.Lock()
	s.lastAttempt = started.UTC()
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.metrics.RecordCatalogLoad(metrics.ResultFailure, started)
		log.Error().Err(err).Msg("catalog refresh failed, keeping previous generation")
		return s.Status(), fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshCatalog, err)
	}
	s.lastError = ""
	s.installLocked(c, SourceRemote)
	s.mu.Unlock()

	result := metrics.ResultSuccess
	if len(c.Index.Entries) == 0 {
		result = metrics.ResultEmpty
	}
	s.metrics.RecordCatalogLoad(result, started)

	if s.cache != nil {
		if err := s.cache.ReplaceCatalog(ctx, c); err != nil {
			log.Warn().Err(err).Msg(apperrors.ErrFailedToCacheCatalog.Error())
		}
	}

	return s.Status(), nil
}

// installLocked swaps in a new generation and drops every session. s.mu must be held.
func (s *PaperTradingService) installLocked(c *catalog.Catalog, source string) {
	s.lastID++
	s.current = newGeneration(s.lastID, c, source)

	dropped := len(s.sessions)
	s.sessions = map[string]*session{}

	s.metrics.CatalogDays.Set(float64(len(c.Datasets)))
	s.metrics.ActiveSessions.Set(0)

	log.Info().
		Uint64("generation", s.lastID).
		Str("source", source).
		Int("days", len(c.Index.Entries)).
		Int("failed", len(c.Failed)).
		Int("dropped_sessions", dropped).
		Msg("catalog generation installed")
}

// Status describes the generation currently served and the last refresh attempt.
func (s *PaperTradingService) Status() model.CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := model.CatalogStatus{
		FailedDays:     []string{},
		ActiveSessions: len(s.sessions),
	}
	if g := s.current; g != nil {
		loadedAt := g.catalog.LoadedAt
		status.Generation = g.id
		status.Source = g.source
		status.UpdatedAt = g.catalog.Index.UpdatedAt
		status.LoadedAt = &loadedAt
		status.Days = len(g.catalog.Index.Entries)
		status.LoadedDays = len(g.catalog.Datasets)
		status.FailedDays = append(status.FailedDays, g.catalog.Failed...)
	}
	if s.lastError != "" {
		lastError := s.lastError
		status.LastError = &lastError
	}
	if !s.lastAttempt.IsZero() {
		lastAttempt := s.lastAttempt
		status.LastAttemptAt = &lastAttempt
	}
	return status
}

// Index returns the catalog index of the current generation.
func (s *PaperTradingService) Index() (model.CatalogIndex, error) {
	g, err := s.generation()
	if err != nil {
		return model.CatalogIndex{}, err
	}
	return g.catalog.Index, nil
}

// AdjustedDay returns one day recalculated against the given snapshot index.
// Unusable indices yield the day as published.
func (s *PaperTradingService) AdjustedDay(date string, snapshotIndex int) (model.DailyDataset, error) {
	g, err := s.generation()
	if err != nil {
		return model.DailyDataset{}, err
	}
	d, ok := g.adjust(date, snapshotIndex)
	if !ok {
		return model.DailyDataset{}, apperrors.ErrDayNotFound
	}
	return d, nil
}

// Summarize aggregates a client-held selection without creating a session.
// Nil dates select every known date. Dates that are not in the index are rejected.
func (s *PaperTradingService) Summarize(req model.SelectionRequest) (model.PortfolioSummary, error) {
	g, err := s.generation()
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	dates := req.Dates
	if dates == nil {
		dates = g.catalog.Dates()
	}
	for _, date := range dates {
		if !g.isKnown(date) {
			return model.PortfolioSummary{}, fmt.Errorf("%w: %s", apperrors.ErrDayNotFound, date)
		}
	}

	sel := papertrading.SelectionOf(dates, req.Excluded, req.Snapshots)
	return sel.Aggregate(g.adjustAll(sel)), nil
}

func (s *PaperTradingService) generation() (*generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.ErrCatalogUnavailable
	}
	return s.current, nil
}

// generation is one installed catalog plus a memo of recalculated days.
type generation struct {
	id      uint64
	catalog *catalog.Catalog
	source  string
	known   map[string]struct{}

	mu       sync.Mutex
	adjusted map[adjustKey]model.DailyDataset
}

type adjustKey struct {
	date  string
	index int
}

func newGeneration(id uint64, c *catalog.Catalog, source string) *generation {
	known := make(map[string]struct{}, len(c.Index.Entries))
	for _, entry := range c.Index.Entries {
		known[entry.Date] = struct{}{}
	}
	return &generation{
		id:       id,
		catalog:  c,
		source:   source,
		known:    known,
		adjusted: map[adjustKey]model.DailyDataset{},
	}
}

func (g *generation) isKnown(date string) bool {
	_, ok := g.known[date]
	return ok
}

// adjust returns the day recalculated for index. Only usable indices are memoised, so
// the memo is bounded by the snapshots the catalog actually has.
func (g *generation) adjust(date string, index int) (model.DailyDataset, bool) {
	raw, ok := g.catalog.Dataset(date)
	if !ok {
		return model.DailyDataset{}, false
	}
	if index <= 0 || index >= len(raw.PriceSnapshots) {
		return raw, true
	}

	key := adjustKey{date: date, index: index}

	g.mu.Lock()
	defer g.mu.Unlock()
	if d, ok := g.adjusted[key]; ok {
		return d, true
	}
	d := papertrading.Adjust(raw, index)
	g.adjusted[key] = d
	return d, true
}

// adjustAll recalculates every loaded day against the selection's snapshots.
func (g *generation) adjustAll(sel papertrading.Selection) map[string]model.DailyDataset {
	adjusted := make(map[string]model.DailyDataset, len(g.catalog.Datasets))
	for date := range g.catalog.Datasets {
		adjusted[date], _ = g.adjust(date, sel.SnapshotIndex(date))
	}
	return adjusted
}

// days returns the adjusted days in index order, skipping days that failed to load.
func (g *generation) days(adjusted map[string]model.DailyDataset) []model.DailyDataset {
	days := make([]model.DailyDataset, 0, len(adjusted))
	for _, date := range g.catalog.Dates() {
		if d, ok := adjusted[date]; ok {
			days = append(days, d)
		}
	}
	return days
}
