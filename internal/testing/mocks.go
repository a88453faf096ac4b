package testing

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MemorySink is an in-memory env sink recording every write in order.
type MemorySink struct {
	mu     sync.Mutex
	values map[string]string
	keys   []string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{values: make(map[string]string)}
}

// Set implements envfile.Sink.
func (s *MemorySink) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.keys = append(s.keys, key)
	return nil
}

// Get returns the last value written for key.
func (s *MemorySink) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the written keys in write order, including repeats.
func (s *MemorySink) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

// MockSink is a testify mock of envfile.Sink.
type MockSink struct {
	mock.Mock
}

// Set implements envfile.Sink.
func (m *MockSink) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
