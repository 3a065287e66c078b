package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
	"github.com/ndewijer/Paper-Trading-Backend/internal/papertrading"
)

const dateLayout = "2006-01-02"

// Publisher maintains a catalog directory: one JSON file per trading day plus the index.
type Publisher struct {
	source        *DirSource
	retentionDays int
}

// NewPublisher creates a publisher for the catalog rooted at dir.
func NewPublisher(dir string, layout Layout, retentionDays int) *Publisher {
	return &Publisher{
		source:        NewDirSource(dir, layout),
		retentionDays: retentionDays,
	}
}

// PruneResult reports what Prune removed.
type PruneResult struct {
	Cutoff         string `json:"cutoff"`
	RemovedFiles   int    `json:"removed_files"`
	RemovedEntries int    `json:"removed_entries"`
}

// Publish writes the dataset as "<trade_date>.json" and upserts its index entry.
// The summary is recomputed from the stocks before writing. Index entries stay sorted
// by date, newest first, and the index updated_at becomes the dataset's collected_at.
func (p *Publisher) Publish(dataset model.DailyDataset) (model.IndexEntry, error) {
	if _, err := time.Parse(dateLayout, dataset.TradeDate); err != nil {
		return model.IndexEntry{}, fmt.Errorf("invalid trade_date %q: %w", dataset.TradeDate, err)
	}
	if dataset.Stocks == nil {
		dataset.Stocks = []model.StockRecord{}
	}
	dataset.Summary = papertrading.Summarize(dataset.Stocks)

	filename := dataset.TradeDate + ".json"
	path, err := p.source.datasetPath(filename)
	if err != nil {
		return model.IndexEntry{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.IndexEntry{}, fmt.Errorf("failed to create dataset directory: %w", err)
	}
	if err := writeJSON(path, dataset); err != nil {
		return model.IndexEntry{}, err
	}

	index, err := p.readIndex()
	if err != nil {
		return model.IndexEntry{}, err
	}

	entry := model.IndexEntry{
		Date:            dataset.TradeDate,
		Filename:        filename,
		TotalProfitRate: dataset.Summary.TotalProfitRate,
		StockCount:      dataset.Summary.TotalStocks,
	}

	replaced := false
	for i := range index.Entries {
		if index.Entries[i].Date == entry.Date {
			index.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		index.Entries = append(index.Entries, entry)
	}
	sort.SliceStable(index.Entries, func(i, j int) bool {
		return index.Entries[i].Date > index.Entries[j].Date
	})
	index.UpdatedAt = dataset.CollectedAt

	if err := p.writeIndex(index); err != nil {
		return model.IndexEntry{}, err
	}

	log.Info().Str("date", entry.Date).Int("stocks", entry.StockCount).Bool("replaced", replaced).Msg("dataset published")
	return entry, nil
}

// Prune removes day files and index entries older than the retention window.
// A day is kept while its date is on or after now minus the retention days.
func (p *Publisher) Prune(now time.Time) (PruneResult, error) {
	cutoff := now.AddDate(0, 0, -p.retentionDays).Format(dateLayout)
	result := PruneResult{Cutoff: cutoff}

	files, err := filepath.Glob(filepath.Join(p.source.datasetDir(), "*.json"))
	if err != nil {
		return result, fmt.Errorf("failed to list datasets: %w", err)
	}
	for _, file := range files {
		stem := strings.TrimSuffix(filepath.Base(file), ".json")
		if _, err := time.Parse(dateLayout, stem); err != nil {
			continue
		}
		if stem >= cutoff {
			continue
		}
		if err := os.Remove(file); err != nil {
			return result, fmt.Errorf("failed to remove %s: %w", file, err)
		}
		result.RemovedFiles++
	}

	index, err := p.readIndex()
	if err != nil {
		return result, err
	}
	kept := index.Entries[:0]
	for _, entry := range index.Entries {
		if entry.Date >= cutoff {
			kept = append(kept, entry)
		}
	}
	result.RemovedEntries = len(index.Entries) - len(kept)
	if result.RemovedEntries > 0 {
		index.Entries = kept
		if err := p.writeIndex(index); err != nil {
			return result, err
		}
	}

	if result.RemovedFiles > 0 || result.RemovedEntries > 0 {
		log.Info().Str("cutoff", cutoff).Int("files", result.RemovedFiles).Int("entries", result.RemovedEntries).Msg("catalog pruned")
	}
	return result, nil
}

func (p *Publisher) readIndex() (model.CatalogIndex, error) {
	var index model.CatalogIndex
	err := readJSON(context.Background(), p.source.indexPath(), &index)
	if errors.Is(err, ErrNotFound) {
		return model.CatalogIndex{Entries: []model.IndexEntry{}}, nil
	}
	if err != nil {
		return model.CatalogIndex{}, err
	}
	if index.Entries == nil {
		index.Entries = []model.IndexEntry{}
	}
	return index, nil
}

func (p *Publisher) writeIndex(index model.CatalogIndex) error {
	path := p.source.indexPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	return writeJSON(path, index)
}

// writeJSON writes v indented, without HTML escaping, through a temporary file so
// readers never observe a partial file.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
