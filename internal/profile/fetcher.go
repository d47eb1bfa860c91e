package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// Fetcher retrieves a remote vCard.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher over plain HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the default timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads targetURL. Only http and https are accepted, and the body
// is capped at MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query strings may carry share tokens.
	safeURL := u.Scheme + "://" + u.Host + u.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgImportStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser caps reads while still closing the underlying body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// Importer loads a profile from a local vCard file or an http(s) URL.
type Importer struct {
	Clock   engine.Clock
	Fetcher Fetcher
}

// NewImporter returns an Importer using the real clock and an HTTPFetcher.
func NewImporter() *Importer {
	return &Importer{Clock: engine.RealClock{}, Fetcher: NewHTTPFetcher()}
}

// Import reads the first vCard found at source.
func (im *Importer) Import(ctx context.Context, source string) (Profile, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Profile{}, errors.New(config.ErrImportEmpty)
	}

	rc, err := im.open(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return Profile{}, ctx.Err()
		}
		return Profile{}, err
	}
	defer func() { _ = rc.Close() }()

	p, err := Decode(rc, now(im.Clock))
	if err != nil {
		return Profile{}, err
	}

	slog.Info(config.MsgProfileLoaded,
		config.LogKeyComponent, config.CompProfile,
		config.LogKeySource, sourceKind(source),
	)
	return p, nil
}

func (im *Importer) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isURL(source) {
		if im.Fetcher == nil {
			return nil, fmt.Errorf("%s: %s", config.ErrInvalidURL, source)
		}
		return im.Fetcher.Fetch(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrProfileLoad, err)
	}
	return f, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, config.SchemeHTTP+"://") || strings.HasPrefix(lower, config.SchemeHTTPS+"://")
}

func sourceKind(s string) string {
	if isURL(s) {
		return "url"
	}
	return "file"
}
