package logging

import (
	"log/slog"
	"sync"
)

// ErrorSampler thins out repeated warnings: the first occurrence of a key
// is logged, then every Nth.
type ErrorSampler struct {
	mu       sync.Mutex
	counts   map[string]int
	interval int
}

// NewErrorSampler creates a sampler logging every interval-th occurrence.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// Observe records one occurrence of key and reports its running count and
// whether it should be logged.
func (s *ErrorSampler) Observe(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[key]++
	count := s.counts[key]
	return count, count == 1 || count%s.interval == 0
}

// Warn records key and, when sampled, logs msg at warn level with the
// running count attached.
func (s *ErrorSampler) Warn(key, msg string, args ...any) {
	count, ok := s.Observe(key)
	if !ok {
		return
	}
	slog.Warn(msg, append(args, "occurrences", count)...)
}

// Count returns how often key has been observed.
func (s *ErrorSampler) Count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Reset forgets key.
func (s *ErrorSampler) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
}
