package engine

import "sync"

// Sink is a memoized sink: it remembers the last value written per key and
// forwards a write to the underlying writer only when the value changed.
// It is independent of the display technology behind the writer.
type Sink[K comparable, V comparable] struct {
	mu    sync.Mutex
	last  map[K]V
	write func(K, V)
}

// NewSink returns a Sink that forwards changed values to write.
func NewSink[K comparable, V comparable](write func(K, V)) *Sink[K, V] {
	return &Sink[K, V]{
		last:  make(map[K]V),
		write: write,
	}
}

// Write forwards value for key unless it equals the previously written value.
// It reports whether the underlying writer was called.
func (s *Sink[K, V]) Write(key K, value V) bool {
	s.mu.Lock()
	if prev, ok := s.last[key]; ok && prev == value {
		s.mu.Unlock()
		return false
	}
	s.last[key] = value
	s.mu.Unlock()

	// Called outside the lock so the writer may use the sink itself.
	if s.write != nil {
		s.write(key, value)
	}
	return true
}

// Last returns the value most recently forwarded for key.
func (s *Sink[K, V]) Last(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.last[key]
	return v, ok
}

// Reset forgets every cached value so the next write of each key goes through.
func (s *Sink[K, V]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.last)
}

// FieldSink dirty-checks Snapshot fields.
type FieldSink struct {
	*Sink[FieldKey, int64]
}

// NewFieldSink returns a FieldSink that forwards changed snapshot fields to write.
func NewFieldSink(write func(FieldKey, int64)) *FieldSink {
	return &FieldSink{Sink: NewSink(write)}
}

// Apply writes every field of snap through the cache and returns the number
// of writes that reached the underlying writer.
func (s *FieldSink) Apply(snap Snapshot) int {
	writes := 0
	for _, f := range snap.Fields() {
		if s.Write(f.Key, f.Value) {
			writes++
		}
	}
	return writes
}
