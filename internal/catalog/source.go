// Package catalog fetches the published paper-trading catalog: an index file listing
// the trading days and one dataset file per day. It also maintains such a catalog on
// disk for the collector side.
package catalog

import (
	"context"
	"errors"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// ErrNotFound is returned by a Source when the index or a dataset does not exist.
var ErrNotFound = errors.New("catalog resource not found")

// Source provides the raw catalog files.
type Source interface {
	FetchIndex(ctx context.Context) (model.CatalogIndex, error)
	FetchDataset(ctx context.Context, filename string) (model.DailyDataset, error)
}

// Layout locates the catalog files relative to a base URL or directory.
type Layout struct {
	IndexPath     string // e.g. "data/paper-trading-index.json"
	DatasetPrefix string // e.g. "data/paper-trading/", joined with an entry's filename
}

// DefaultLayout is the layout the collector publishes.
var DefaultLayout = Layout{
	IndexPath:     "data/paper-trading-index.json",
	DatasetPrefix: "data/paper-trading/",
}
