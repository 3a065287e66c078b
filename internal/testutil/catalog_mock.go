package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// MemorySource is an in-memory catalog.Source for testing.
// It serves a fixed index and datasets keyed by filename and records how often it was called.
//
// Example usage:
//
//	source := testutil.NewMemorySource(d1, d2)
//	source.DatasetErrs["2026-02-11.json"] = errors.New("boom")
//	loader := catalog.NewLoader(source, 4, nil)
type MemorySource struct {
	mu sync.Mutex

	// Index is returned by FetchIndex unless IndexErr is set
	Index    model.CatalogIndex
	IndexErr error
	// Datasets are keyed by index filename; missing names return catalog.ErrNotFound
	Datasets    map[string]model.DailyDataset
	DatasetErrs map[string]error

	IndexCalls   int
	DatasetCalls int
}

// NewMemorySource creates a source whose index lists the given datasets newest first.
func NewMemorySource(datasets ...model.DailyDataset) *MemorySource {
	files := make(map[string]model.DailyDataset, len(datasets))
	for _, d := range datasets {
		files[d.TradeDate+".json"] = d
	}
	return &MemorySource{
		Index:       IndexFor(datasets...),
		Datasets:    files,
		DatasetErrs: map[string]error{},
	}
}

// SetDatasets replaces the served catalog, e.g. to simulate a new publication.
func (m *MemorySource) SetDatasets(datasets ...model.DailyDataset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Index = IndexFor(datasets...)
	m.Datasets = make(map[string]model.DailyDataset, len(datasets))
	for _, d := range datasets {
		m.Datasets[d.TradeDate+".json"] = d
	}
}

// SetIndexErr makes subsequent FetchIndex calls fail with err.
func (m *MemorySource) SetIndexErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IndexErr = err
}

// FetchIndex returns the configured index.
func (m *MemorySource) FetchIndex(ctx context.Context) (model.CatalogIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IndexCalls++
	if err := ctx.Err(); err != nil {
		return model.CatalogIndex{}, err
	}
	if m.IndexErr != nil {
		return model.CatalogIndex{}, m.IndexErr
	}
	return m.Index, nil
}

// FetchDataset returns the dataset stored under filename.
func (m *MemorySource) FetchDataset(ctx context.Context, filename string) (model.DailyDataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DatasetCalls++
	if err := ctx.Err(); err != nil {
		return model.DailyDataset{}, err
	}
	if err, ok := m.DatasetErrs[filename]; ok {
		return model.DailyDataset{}, err
	}
	dataset, ok := m.Datasets[filename]
	if !ok {
		return model.DailyDataset{}, fmt.Errorf("%s: %w", filename, catalog.ErrNotFound)
	}
	return dataset, nil
}
