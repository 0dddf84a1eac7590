package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
)

const userAgent = "tdocportal/1.0"

// Fetcher retrieves the meeting listing and extracts archive identifiers.
type Fetcher struct {
	listingURL string
	pattern    *regexp.Regexp
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithLogger attaches a logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logging.NewComponentLogger(logger, "manifest")
		}
	}
}

// New builds a Fetcher from configuration.
func New(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	pattern, err := regexp.Compile(cfg.Manifest.Pattern)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "manifest", "compile pattern", "invalid archive pattern", err)
	}
	fetcher := &Fetcher{
		listingURL: cfg.Manifest.BaseURL,
		pattern:    pattern,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Manifest.TimeoutSeconds) * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher, nil
}

// Fetch retrieves the listing page and returns the TDoc identifiers in
// order of first appearance. Duplicate links collapse to one identifier.
// An empty slice with a nil error means the page parsed but matched
// nothing.
func (f *Fetcher) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.listingURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "manifest", "build request", "invalid listing URL", err)
	}
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := f.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "manifest", "fetch listing", "listing request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransport, "manifest", "fetch listing",
			fmt.Sprintf("listing returned status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "manifest", "parse listing", "listing is not parseable HTML", err)
	}

	var ids []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		filename := f.pattern.FindString(href)
		if filename == "" {
			return
		}
		id := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})

	f.logger.Info("listing fetched",
		logging.String("url", f.listingURL),
		logging.Int("identifiers", len(ids)),
		logging.Duration("latency", latency))
	return ids, nil
}
