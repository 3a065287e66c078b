package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// DirSource reads the catalog from a local directory with the published layout.
type DirSource struct {
	root   string
	layout Layout
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string, layout Layout) *DirSource {
	return &DirSource{root: dir, layout: layout}
}

// FetchIndex reads the index file.
func (s *DirSource) FetchIndex(ctx context.Context) (model.CatalogIndex, error) {
	var index model.CatalogIndex
	if err := readJSON(ctx, s.indexPath(), &index); err != nil {
		return model.CatalogIndex{}, err
	}
	return index, nil
}

// FetchDataset reads one day's dataset. Filenames must be plain base names.
func (s *DirSource) FetchDataset(ctx context.Context, filename string) (model.DailyDataset, error) {
	path, err := s.datasetPath(filename)
	if err != nil {
		return model.DailyDataset{}, err
	}

	var dataset model.DailyDataset
	if err := readJSON(ctx, path, &dataset); err != nil {
		return model.DailyDataset{}, err
	}
	return dataset, nil
}

func (s *DirSource) indexPath() string {
	return filepath.Join(s.root, filepath.FromSlash(s.layout.IndexPath))
}

func (s *DirSource) datasetDir() string {
	return filepath.Join(s.root, filepath.FromSlash(s.layout.DatasetPrefix))
}

func (s *DirSource) datasetPath(filename string) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	return filepath.Join(s.datasetDir(), filename), nil
}

func validateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return fmt.Errorf("invalid dataset filename %q", filename)
	}
	return nil
}

func readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
