package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/catalog"
	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// CatalogRepository caches the last loaded catalog generation in the catalog_meta,
// catalog_entry and catalog_dataset tables, so the service can serve it right after
// a restart.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository with the provided database connection.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ReplaceCatalog stores the catalog, replacing whatever was cached before.
// The whole replacement runs in one transaction.
func (r *CatalogRepository) ReplaceCatalog(ctx context.Context, c *catalog.Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range []string{"DELETE FROM catalog_dataset", "DELETE FROM catalog_entry"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear catalog cache: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_meta (id, updated_at, loaded_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, loaded_at = excluded.loaded_at
	`, c.Index.UpdatedAt, c.LoadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to store catalog meta: %w", err)
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_entry (date, filename, total_profit_rate, stock_count, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer entryStmt.Close()

	datasetStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_dataset (date, payload) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare dataset insert: %w", err)
	}
	defer datasetStmt.Close()

	for i, entry := range c.Index.Entries {
		if _, err := entryStmt.ExecContext(ctx, entry.Date, entry.Filename, entry.TotalProfitRate, entry.StockCount, i); err != nil {
			return fmt.Errorf("failed to insert catalog entry %s: %w", entry.Date, err)
		}

		dataset, ok := c.Datasets[entry.Date]
		if !ok {
			continue
		}
		payload, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to encode dataset %s: %w", entry.Date, err)
		}
		if _, err := datasetStmt.ExecContext(ctx, entry.Date, string(payload)); err != nil {
			return fmt.Errorf("failed to insert dataset %s: %w", entry.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog cache: %w", err)
	}
	return nil
}

// LoadCatalog rebuilds the cached catalog. Entries without a cached dataset are
// reported in Failed, as they were when the catalog was stored.
// Returns apperrors.ErrCatalogNotCached when nothing has been stored yet.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var updatedAt, loadedAt string
	err := r.db.QueryRowContext(ctx, `SELECT updated_at, loaded_at FROM catalog_meta WHERE id = 1`).Scan(&updatedAt, &loadedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrCatalogNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog meta: %w", err)
	}

	loaded, err := time.Parse(time.RFC3339Nano, loadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog loaded_at: %w", err)
	}

	entries, err := r.getEntries(ctx)
	if err != nil {
		return nil, err
	}

	datasets, err := r.getDatasets(ctx)
	if err != nil {
		return nil, err
	}

	var failed []string
	for _, entry := range entries {
		if _, ok := datasets[entry.Date]; !ok {
			failed = append(failed, entry.Date)
		}
	}
	sort.Strings(failed)

	return &catalog.Catalog{
		Index:    model.CatalogIndex{UpdatedAt: updatedAt, Entries: entries},
		Datasets: datasets,
		Failed:   failed,
		LoadedAt: loaded.UTC(),
	}, nil
}

func (r *CatalogRepository) getEntries(ctx context.Context) ([]model.IndexEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, filename, total_profit_rate, stock_count
		FROM catalog_entry
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.IndexEntry{}
	for rows.Next() {
		var e model.IndexEntry
		if err := rows.Scan(&e.Date, &e.Filename, &e.TotalProfitRate, &e.StockCount); err != nil {
			return nil, fmt.Errorf("failed to scan catalog_entry table results: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog_entry table: %w", err)
	}

	return entries, nil
}

func (r *CatalogRepository) getDatasets(ctx context.Context) (map[string]model.DailyDataset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, payload FROM catalog_dataset`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog_dataset table: %w", err)
	}
	defer rows.Close()

	datasets := map[string]model.DailyDataset{}
	for rows.Next() {
		var date, payload string
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan catalog_dataset table results: %w", err)
		}

		var d model.DailyDataset
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			return nil, fmt.Errorf("failed to decode cached dataset %s: %w", date, err)
		}
		datasets[date] = d
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog_dataset table: %w", err)
	}

	return datasets, nil
}
