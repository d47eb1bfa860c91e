package engine_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// fieldLog is a thread-safe write target for session tests.
type fieldLog struct {
	mu     sync.Mutex
	writes map[engine.FieldKey]int
}

func newFieldLog() *fieldLog {
	return &fieldLog{writes: make(map[engine.FieldKey]int)}
}

func (l *fieldLog) write(k engine.FieldKey, _ int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes[k]++
}

func (l *fieldLog) count(k engine.FieldKey) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes[k]
}

func TestNewSession(t *testing.T) {
	_, err := engine.NewSession(nil, engine.Birth{})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	a, err := engine.NewSession(nil, mustBirth(refBirth))
	require.NoError(t, err)
	b, err := engine.NewSession(nil, mustBirth(refBirth))
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, a.Active())
	assert.Nil(t, a.Done())
}

func TestSession_StartWritesEveryFieldOnce(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(48 * time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	log := newFieldLog()
	require.NoError(t, s.Start(time.Hour, log.write))
	defer s.Stop()

	assert.True(t, s.Active())
	for _, f := range (engine.Snapshot{}).Fields() {
		assert.Equal(t, 1, log.count(f.Key), "field %s", f.Key)
	}
}

func TestSession_UnchangedFieldsAreNotRewritten(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(48 * time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	log := newFieldLog()
	require.NoError(t, s.Start(testInterval, func(k engine.FieldKey, v int64) {
		log.write(k, v)
		if k == engine.FieldSeconds {
			clock.Advance(time.Second)
		}
	}))
	defer s.Stop()

	require.Eventually(t, func() bool { return log.count(engine.FieldSeconds) >= 3 }, waitFor, pollEvery)
	assert.Equal(t, 1, log.count(engine.FieldYears), "years never changed")
	assert.Equal(t, 1, log.count(engine.FieldDays), "days never changed")
}

func TestSession_RestartResetsCache(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	log := newFieldLog()
	require.NoError(t, s.Start(time.Hour, log.write))
	first := s.Done()

	require.NoError(t, s.Start(time.Hour, log.write))
	defer s.Stop()

	select {
	case <-first:
	case <-time.After(waitFor):
		t.Fatal("previous loop was not cancelled by Start")
	}
	assert.Equal(t, 2, log.count(engine.FieldYears), "a new start begins with an empty cache")
}

func TestSession_Stop(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	log := newFieldLog()
	require.NoError(t, s.Start(testInterval, func(k engine.FieldKey, v int64) {
		log.write(k, v)
		clock.Advance(time.Second)
	}))
	done := s.Done()
	require.Eventually(t, func() bool { return log.count(engine.FieldSeconds) >= 2 }, waitFor, pollEvery)

	s.Stop()
	assert.False(t, s.Active())
	<-done

	n := log.count(engine.FieldSeconds)
	time.Sleep(10 * testInterval)
	assert.Equal(t, n, log.count(engine.FieldSeconds))

	assert.NotPanics(t, s.Stop)
}

func TestSession_StopFromWriter(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	// Stopping during the immediate delivery must not deadlock, and the
	// loop started by this call must not survive.
	require.NoError(t, s.Start(time.Hour, func(engine.FieldKey, int64) { s.Stop() }))
	assert.False(t, s.Active())
}

func TestSession_IndependentCaches(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(time.Hour)}
	birth := mustBirth(refBirth)

	a, err := engine.NewSession(clock, birth)
	require.NoError(t, err)
	b, err := engine.NewSession(clock, birth)
	require.NoError(t, err)

	logA, logB := newFieldLog(), newFieldLog()
	require.NoError(t, a.Start(time.Hour, logA.write))
	defer a.Stop()
	require.NoError(t, b.Start(time.Hour, logB.write))
	defer b.Stop()

	assert.Equal(t, 1, logA.count(engine.FieldHours))
	assert.Equal(t, 1, logB.count(engine.FieldHours), "a second session is not suppressed by the first one's cache")
}

func TestSession_Snapshot(t *testing.T) {
	clock := &MockClock{CurrentTime: refBirth.Add(3 * time.Hour)}
	s, err := engine.NewSession(clock, mustBirth(refBirth))
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.Hours)
	assert.Equal(t, refBirth, s.Birth().Time())
}
