package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// LiveOption customizes StartLiveUpdates.
type LiveOption func(*liveOptions)

type liveOptions struct {
	immediate bool
	onError   func(error)
}

// WithImmediate controls whether one snapshot is delivered synchronously
// before StartLiveUpdates returns. Enabled by default.
func WithImmediate(immediate bool) LiveOption {
	return func(o *liveOptions) {
		o.immediate = immediate
	}
}

// WithErrorHandler receives the error of any tick whose computation failed,
// for instance after the wall clock was moved backwards before the birth.
// The failed tick delivers nothing.
func WithErrorHandler(fn func(error)) LiveOption {
	return func(o *liveOptions) {
		o.onError = fn
	}
}

// CancelHandle stops a live update loop started by StartLiveUpdates.
type CancelHandle struct {
	once      sync.Once
	cancelled atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// Cancel stops future deliveries. It is idempotent and safe to call from any
// goroutine, including from inside the snapshot callback. A delivery already
// running when Cancel is called is allowed to finish.
func (h *CancelHandle) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		close(h.stop)
	})
}

// Cancelled reports whether Cancel has been called.
func (h *CancelHandle) Cancelled() bool {
	return h.cancelled.Load()
}

// Done is closed once the update loop has exited.
func (h *CancelHandle) Done() <-chan struct{} {
	return h.done
}

// StartLiveUpdates recomputes the snapshot of birth every interval and hands
// each one to onSnapshot, until the returned handle is cancelled.
//
// birth is validated once, against clock.Now(), before anything is scheduled.
// Every tick reads the clock afresh, so a late tick never accumulates drift.
// Deliveries happen sequentially on a single goroutine, in time order.
func StartLiveUpdates(clock Clock, birth Birth, interval time.Duration, onSnapshot func(Snapshot), opts ...LiveOption) (*CancelHandle, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if onSnapshot == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrNilCallback)
	}
	if clock == nil {
		clock = RealClock{}
	}

	o := liveOptions{immediate: true}
	for _, opt := range opts {
		opt(&o)
	}

	first, err := Compute(birth, clock.Now())
	if err != nil {
		return nil, err
	}

	h := &CancelHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	slog.Debug(config.MsgLiveStarted,
		config.LogKeyComponent, config.CompLive,
		config.LogKeyInterval, interval,
	)

	if o.immediate {
		onSnapshot(first)
	}

	go h.run(clock, birth, interval, onSnapshot, o.onError)
	return h, nil
}

// run is the tick loop owned by one handle.
func (h *CancelHandle) run(clock Clock, birth Birth, interval time.Duration, onSnapshot func(Snapshot), onError func(error)) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			slog.Debug(config.MsgLiveStopped, config.LogKeyComponent, config.CompLive)
			return

		case <-ticker.C:
			// select picks randomly when both channels are ready.
			if h.cancelled.Load() {
				continue
			}
			snap, err := Compute(birth, clock.Now())
			if err != nil {
				slog.Debug(config.MsgLiveTickErr,
					config.LogKeyComponent, config.CompLive,
					config.LogKeyError, err,
				)
				if onError != nil {
					onError(err)
				}
				continue
			}
			if h.cancelled.Load() {
				continue
			}
			onSnapshot(snap)
		}
	}
}
