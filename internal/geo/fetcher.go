package geo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"rescuemap/internal/config"
	"rescuemap/internal/logger"
	"rescuemap/pkg/utils"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrRemoteFetch          = errors.New("boundary download failed and no cached copy exists")
)

// Fetcher downloads doogal ward KML files into the local cache directory,
// with config-driven retry. A failed download is recoverable when the cache
// already holds a copy; otherwise it is fatal.
type Fetcher struct {
	client      *http.Client
	retryPolicy *config.RetryPolicy
	geometry    *config.GeometryConfig
	log         *logger.Logger
}

// NewFetcher creates a fetcher for the configured districts.
func NewFetcher(geometry *config.GeometryConfig, retryPolicy *config.RetryPolicy, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		geometry:    geometry,
		log:         log,
	}
}

// cachePath returns the cache file for one ward ID within a district.
func (f *Fetcher) cachePath(district string, id int) string {
	return filepath.Join(f.geometry.CacheDir, district, fmt.Sprintf("E0%d.kml", id))
}

// FetchAll downloads every ward in every configured district ID range,
// writing through to the cache. Wards that fail to download but have a
// cached copy are kept from cache; a ward with neither aborts the run.
func (f *Fetcher) FetchAll() error {
	districts := make([]string, 0, len(f.geometry.Districts))
	for district := range f.geometry.Districts {
		districts = append(districts, district)
	}

	sort.Strings(districts)

	for _, district := range districts {
		idRange := f.geometry.Districts[district]

		dir := filepath.Join(f.geometry.CacheDir, district)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}

		for id := idRange.From; id <= idRange.To; id++ {
			if err := f.fetchWard(district, id); err != nil {
				return err
			}
		}
	}

	return nil
}

func (f *Fetcher) fetchWard(district string, id int) error {
	url := fmt.Sprintf(f.geometry.URLTemplate, id)
	path := f.cachePath(district, id)

	data, err := f.download(url)
	if err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			f.log.Warn("download failed, using cached copy", "url", url, "cache", path, "error", err)

			return nil
		}

		return fmt.Errorf("%w: %s: %w", ErrRemoteFetch, url, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	f.log.Debug("fetched ward boundary", "district", district, "id", id, "bytes", len(data))

	return nil
}

// download fetches one URL with exponential backoff, the same retry shape
// the rest of the pipeline's remote access uses.
func (f *Fetcher) download(url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if delay := f.retryPolicy.GetRetryDelay(attempt); delay > 0 {
			time.Sleep(delay)
		}

		req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header = utils.BuildHeaders(nil)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: %d (attempt %d/%d)", ErrUnexpectedStatusCode, resp.StatusCode, attempt, f.retryPolicy.MaxAttempts)

			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read body (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

			continue
		}

		return data, nil
	}

	return nil, lastErr
}
