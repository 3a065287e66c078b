package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Paper-Trading-Backend/internal/metrics"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// Catalog is one loaded generation of the published catalog. It is never modified
// after Load returns it.
type Catalog struct {
	Index    model.CatalogIndex
	Datasets map[string]model.DailyDataset // Keyed by index entry date
	Failed   []string                      // Entry dates whose dataset could not be fetched, sorted
	LoadedAt time.Time
}

// Dates returns the known dates of the catalog in index order.
func (c *Catalog) Dates() []string {
	dates := make([]string, len(c.Index.Entries))
	for i, entry := range c.Index.Entries {
		dates[i] = entry.Date
	}
	return dates
}

// Dataset returns the dataset for a date, if it was loaded.
func (c *Catalog) Dataset(date string) (model.DailyDataset, bool) {
	d, ok := c.Datasets[date]
	return d, ok
}

// Loader turns a Source into a Catalog.
type Loader struct {
	source      Source
	concurrency int
	metrics     *metrics.Registry
	now         func() time.Time
}

// NewLoader creates a loader fetching at most concurrency datasets at a time.
// The metrics registry is optional.
func NewLoader(source Source, concurrency int, m *metrics.Registry) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{
		source:      source,
		concurrency: concurrency,
		metrics:     m,
		now:         time.Now,
	}
}

// Load fetches the index, then every day's dataset concurrently.
//
// A missing index or an index without entries yields an empty catalog. Any other
// index failure is returned as an error. A dataset that cannot be fetched is left out
// of Datasets and listed in Failed; it never fails the load as a whole. When an index
// lists the same date twice the first entry wins.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	index, err := l.source.FetchIndex(ctx)
	if errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Msg("catalog index not found, serving an empty catalog")
		return l.emptyCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog index: %w", err)
	}

	index.Entries = dedupeEntries(index.Entries)
	if len(index.Entries) == 0 {
		c := l.emptyCatalog()
		c.Index.UpdatedAt = index.UpdatedAt
		return c, nil
	}

	var (
		mu       sync.Mutex
		datasets = make(map[string]model.DailyDataset, len(index.Entries))
		failed   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, entry := range index.Entries {
		g.Go(func() error {
			dataset, err := l.source.FetchDataset(gctx, entry.Filename)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn().Err(err).Str("date", entry.Date).Str("filename", entry.Filename).Msg("failed to fetch dataset")
				if l.metrics != nil {
					l.metrics.DatasetFetchFailures.Inc()
				}
				mu.Lock()
				failed = append(failed, entry.Date)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			datasets[entry.Date] = dataset
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("catalog load interrupted: %w", err)
	}

	sort.Strings(failed)

	log.Info().
		Int("days", len(index.Entries)).
		Int("loaded", len(datasets)).
		Int("failed", len(failed)).
		Msg("catalog loaded")

	return &Catalog{
		Index:    index,
		Datasets: datasets,
		Failed:   failed,
		LoadedAt: l.now().UTC(),
	}, nil
}

func (l *Loader) emptyCatalog() *Catalog {
	return &Catalog{
		Index:    model.CatalogIndex{Entries: []model.IndexEntry{}},
		Datasets: map[string]model.DailyDataset{},
		LoadedAt: l.now().UTC(),
	}
}

func dedupeEntries(entries []model.IndexEntry) []model.IndexEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]model.IndexEntry, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Date]; dup {
			log.Warn().Str("date", entry.Date).Str("filename", entry.Filename).Msg("duplicate index entry ignored")
			continue
		}
		seen[entry.Date] = struct{}{}
		out = append(out, entry)
	}
	return out
}
