package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// HTTPSource fetches the catalog from a static site, such as the GitHub Pages
// deployment the collector publishes to.
//
// Every request carries a "t=<unix millis>" query parameter so intermediate caches
// always return the latest published files. Index requests go through a circuit
// breaker: after repeated failures FetchIndex fails fast until the breaker half-opens
// again. Dataset requests bypass it so one broken day file never fails another.
type HTTPSource struct {
	baseURL    string
	layout     Layout
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	now        func() time.Time
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, layout Layout, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		layout:     layout,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("catalog-http"),
		now:        time.Now,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing file is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
}

// FetchIndex retrieves the catalog index.
func (s *HTTPSource) FetchIndex(ctx context.Context) (model.CatalogIndex, error) {
	var index model.CatalogIndex
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.getJSON(ctx, s.layout.IndexPath, &index)
	})
	if err != nil {
		return model.CatalogIndex{}, err
	}
	return index, nil
}

// FetchDataset retrieves one day's dataset by its index filename.
func (s *HTTPSource) FetchDataset(ctx context.Context, filename string) (model.DailyDataset, error) {
	var dataset model.DailyDataset
	if err := s.getJSON(ctx, s.layout.DatasetPrefix+url.PathEscape(filename), &dataset); err != nil {
		return model.DailyDataset{}, err
	}
	return dataset, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, v any) error {
	target, err := url.Parse(s.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return fmt.Errorf("invalid catalog url: %w", err)
	}
	q := target.Query()
	q.Set("t", strconv.FormatInt(s.now().UnixMilli(), 10))
	target.RawQuery = q.Encode()

	return s.do(ctx, target.String(), v)
}

func (s *HTTPSource) do(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", "paper-trading-backend/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", target, err)
	}
	return nil
}
