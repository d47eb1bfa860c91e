package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// SnapshotSource computes the current snapshot on demand. *engine.Session
// satisfies it.
type SnapshotSource interface {
	ID() string
	Snapshot() (engine.Snapshot, error)
}

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as required by HTTP headers
}

type sourceHolder struct {
	src SnapshotSource
}

// LifeServer serves the milestone calendar and the live snapshot on localhost.
type LifeServer struct {
	// Both pointers are swapped whole; GET handlers never lock.
	cache  atomic.Pointer[cacheItem]
	source atomic.Pointer[sourceHolder]
	Port   string
}

// NewLifeServer creates a server that will listen on port once started.
func NewLifeServer(port string) *LifeServer {
	return &LifeServer{
		Port: port,
	}
}

// Handler returns the routing table, also used directly by tests.
func (s *LifeServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	mux.HandleFunc(config.RouteSnapshot, s.handleSnapshotRequest)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *LifeServer) Start(ctx context.Context) error {
	if err := config.ValidatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish atomically replaces the served calendar.
func (s *LifeServer) Publish(ics []byte) {
	hash := sha256.Sum256(ics)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         ics,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics),
		config.LogKeyETag, etag,
	)
}

// SetSource selects where /snapshot reads from. A nil source puts the endpoint
// back into its initializing state.
func (s *LifeServer) SetSource(src SnapshotSource) {
	if src == nil {
		s.source.Store(nil)
		return
	}
	s.source.Store(&sourceHolder{src: src})
	slog.Debug(config.MsgSessionSet,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySession, src.ID(),
	)
}

// Attach points /snapshot at src and publishes the milestone calendar of
// name, born at src's birth.
func (s *LifeServer) Attach(src *engine.Session, gen *engine.CalendarGenerator, name string) error {
	s.SetSource(src)
	ics, _, err := gen.Generate(name, src.Birth())
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPublish, err)
	}
	s.Publish(ics)
	return nil
}

// allowRead rejects anything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func unavailable(w http.ResponseWriter) {
	w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
	http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *LifeServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	item := s.cache.Load()
	if item == nil {
		unavailable(w)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// snapshotResponse is the JSON body of /snapshot.
type snapshotResponse struct {
	Session string `json:"session"`
	engine.Snapshot
	DayOfWeekBorn string `json:"day_of_week_born"`
}

// handleSnapshotRequest computes a fresh snapshot per request; it is never cached.
func (s *LifeServer) handleSnapshotRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	holder := s.source.Load()
	if holder == nil {
		unavailable(w)
		return
	}

	snap, err := holder.src.Snapshot()
	if err != nil {
		slog.Error(config.HTTPMsgInternalErr,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(snapshotResponse{
		Session:       holder.src.ID(),
		Snapshot:      snap,
		DayOfWeekBorn: snap.DayOfWeekBorn.String(),
	})
	if err != nil {
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)

	if r.Method == http.MethodGet {
		if _, err := w.Write(body); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
