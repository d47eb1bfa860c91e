package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-lifestats/internal/config"
)

// Session binds one Birth to at most one running live update loop and to the
// FieldSink that dirty-checks its deliveries. Sessions share nothing: two
// sessions over the same Birth keep independent caches.
type Session struct {
	id    uuid.UUID
	clock Clock
	birth Birth

	mu     sync.Mutex
	gen    uint64
	handle *CancelHandle
	sink   *FieldSink
}

// NewSession creates an idle session. A nil clock means RealClock.
func NewSession(clock Clock, birth Birth) (*Session, error) {
	if birth.IsZero() {
		return nil, ErrInvalidInput
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Session{
		id:    uuid.New(),
		clock: clock,
		birth: birth,
	}, nil
}

// ID identifies the session in logs and in the HTTP snapshot endpoint.
func (s *Session) ID() string {
	return s.id.String()
}

// Birth returns the birth the session measures from.
func (s *Session) Birth() Birth {
	return s.birth
}

// Snapshot computes the snapshot for the session clock's current time.
func (s *Session) Snapshot() (Snapshot, error) {
	return Compute(s.birth, s.clock.Now())
}

// Start cancels any running loop, discards the previous cache and starts a
// new loop whose fields are written through a fresh FieldSink to write.
// write is only called for fields whose value changed since the last delivery
// of this loop. With the default options the first delivery happens before
// Start returns.
func (s *Session) Start(interval time.Duration, write func(FieldKey, int64), opts ...LiveOption) error {
	s.mu.Lock()
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	sink := NewFieldSink(write)
	s.sink = sink
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	// The lock is not held here: the immediate delivery runs write, which may
	// call back into the session.
	h, err := StartLiveUpdates(s.clock, s.birth, interval, func(snap Snapshot) {
		sink.Apply(snap)
	}, opts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Stopped or restarted while the first delivery was running.
		h.Cancel()
		return nil
	}
	s.handle = h

	slog.Info(config.MsgSessionStart,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySession, s.ID(),
		config.LogKeyInterval, interval,
	)
	return nil
}

// Stop cancels the running loop, if any. It is safe to call repeatedly.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.handle == nil {
		return
	}
	s.handle.Cancel()
	s.handle = nil

	slog.Info(config.MsgSessionStop,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySession, s.ID(),
	)
}

// Active reports whether a live loop is currently running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Done returns the Done channel of the running loop, or nil when idle.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	return s.handle.Done()
}
