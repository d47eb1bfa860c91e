package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

type stubSource struct {
	snap engine.Snapshot
	err  error
}

func (s stubSource) ID() string { return "test-session" }

func (s stubSource) Snapshot() (engine.Snapshot, error) { return s.snap, s.err }

func serve(srv *LifeServer, method, target string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Calendar endpoint
// -----------------------------------------------------------------------------

// TestHandler_ServingContent verifies headers and body once a calendar is published.
func TestHandler_ServingContent(t *testing.T) {
	srv := NewLifeServer("0")
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Publish(expectedICS)

	resp := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, body)
}

// TestHandler_Caching verifies that If-None-Match yields 304 Not Modified.
func TestHandler_Caching(t *testing.T) {
	srv := NewLifeServer("0")
	srv.Publish([]byte("DATA_VERSION_1"))

	first := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	etag := first.Header.Get(config.HeaderETag)
	_ = first.Body.Close()
	require.NotEmpty(t, etag, "Server must provide an ETag")

	resp := serve(srv, http.MethodGet, config.RouteCalendar, http.Header{config.HeaderIfNoneMatch: {etag}})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	srv.Publish([]byte("DATA_VERSION_2"))
	changed := serve(srv, http.MethodGet, config.RouteCalendar, http.Header{config.HeaderIfNoneMatch: {etag}})
	defer func() { _ = changed.Body.Close() }()
	assert.Equal(t, http.StatusOK, changed.StatusCode, "a new calendar invalidates the old ETag")
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv := NewLifeServer("0")
	srv.Publish([]byte("DATA"))

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	resp := serve(srv, http.MethodGet, config.RouteCalendar, http.Header{config.HeaderIfModifiedSince: {future}})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted on both routes.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewLifeServer("0")

	for _, route := range []string{config.RouteCalendar, config.RouteSnapshot} {
		t.Run(route, func(t *testing.T) {
			resp := serve(srv, http.MethodPost, route, nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
		})
	}
}

// TestHandler_Initializing verifies the 503 behavior when nothing is published yet.
func TestHandler_Initializing(t *testing.T) {
	srv := NewLifeServer("0")

	for _, route := range []string{config.RouteCalendar, config.RouteSnapshot} {
		t.Run(route, func(t *testing.T) {
			resp := serve(srv, http.MethodGet, route, nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
			assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
		})
	}
}

func TestHandler_UnknownRoute(t *testing.T) {
	resp := serve(NewLifeServer("0"), http.MethodGet, "/nope", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// -----------------------------------------------------------------------------
// Snapshot endpoint
// -----------------------------------------------------------------------------

func TestHandler_Snapshot(t *testing.T) {
	birth, err := engine.NewBirth(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())
	require.NoError(t, err)
	snap, err := engine.Compute(birth, birth.Time().Add(time.Hour))
	require.NoError(t, err)

	srv := NewLifeServer("0")
	srv.SetSource(stubSource{snap: snap})

	resp := serve(srv, http.MethodGet, config.RouteSnapshot, nil)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.CacheControlNoStore, resp.Header.Get(config.HeaderCacheControl))

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "test-session", got["session"])
	assert.Equal(t, float64(60), got["minutes"])
	assert.Equal(t, float64(4320), got["heartbeats"])
	assert.Equal(t, "Saturday", got["day_of_week_born"])
}

func TestHandler_SnapshotHead(t *testing.T) {
	srv := NewLifeServer("0")
	srv.SetSource(stubSource{})

	resp := serve(srv, http.MethodHead, config.RouteSnapshot, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestHandler_SnapshotError(t *testing.T) {
	srv := NewLifeServer("0")
	srv.SetSource(stubSource{err: errors.New("clock went backwards")})

	resp := serve(srv, http.MethodGet, config.RouteSnapshot, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	srv.SetSource(nil)
	resp2 := serve(srv, http.MethodGet, config.RouteSnapshot, nil)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}

func TestHandler_SnapshotFromSession(t *testing.T) {
	birth, err := engine.NewBirth(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())
	require.NoError(t, err)
	clock := engine.FixedClock{T: birth.Time().Add(48 * time.Hour)}
	session, err := engine.NewSession(clock, birth)
	require.NoError(t, err)

	srv := NewLifeServer("0")
	srv.SetSource(session)

	resp := serve(srv, http.MethodGet, config.RouteSnapshot, nil)
	defer func() { _ = resp.Body.Close() }()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, session.ID(), got["session"])
	assert.Equal(t, float64(2), got["days"])
}

func TestAttach(t *testing.T) {
	birth, err := engine.NewBirth(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())
	require.NoError(t, err)
	clock := engine.FixedClock{T: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	session, err := engine.NewSession(clock, birth)
	require.NoError(t, err)

	srv := NewLifeServer("0")
	require.NoError(t, srv.Attach(session, &engine.CalendarGenerator{Clock: clock}, "Ada"))

	resp := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SUMMARY:Ada turns 25")

	snap := serve(srv, http.MethodGet, config.RouteSnapshot, nil)
	defer func() { _ = snap.Body.Close() }()
	assert.Equal(t, http.StatusOK, snap.StatusCode)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition stresses concurrent publishing and serving.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewLifeServer("0")
	handler := srv.Handler()
	var wg sync.WaitGroup

	end := time.Now().Add(500 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			i := 0
			for time.Now().Before(end) {
				srv.Publish([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				srv.SetSource(stubSource{snap: engine.Snapshot{Seconds: int64(i)}})
				i++
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			route := config.RouteCalendar
			if r%2 == 0 {
				route = config.RouteSnapshot
			}
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}(r)
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

func TestServer_RejectsInvalidPort(t *testing.T) {
	for _, port := range []string{"", "abc", "0", "70000"} {
		err := NewLifeServer(port).Start(context.Background())
		assert.Error(t, err, "port %q", port)
	}
}

// TestServer_Lifecycle binds a real listener and checks graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18199"

	srv := NewLifeServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Publish([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
