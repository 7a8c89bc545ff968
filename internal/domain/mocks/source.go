package mocks

import (
	"context"
	"sync"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSource struct {
	mock.Mock
	Name string
	K    domain.SourceKind
}

func (m *MockSource) FetchPage(ctx context.Context, page, perPage int) ([]domain.Post, error) {
	args := m.Called(ctx, page, perPage)
	var posts []domain.Post
	switch v := args.Get(0).(type) {
	case func(context.Context, int, int) []domain.Post:
		posts = v(ctx, page, perPage)
	case []domain.Post:
		posts = v
	}
	return posts, args.Error(1)
}

func (m *MockSource) GetName() string {
	return m.Name
}

func (m *MockSource) Kind() domain.SourceKind {
	return m.K
}

// MockProgressPublisher records every published notification.
type MockProgressPublisher struct {
	mu     sync.Mutex
	Events []domain.Progress
}

func (m *MockProgressPublisher) PublishProgress(_ context.Context, p domain.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, p)
	return nil
}

func (m *MockProgressPublisher) Close() error {
	return nil
}

// Snapshot returns a copy of the recorded notifications.
func (m *MockProgressPublisher) Snapshot() []domain.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Progress(nil), m.Events...)
}
