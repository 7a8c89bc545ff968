package mocks

import (
	"context"
	"io"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Transform(ctx context.Context, reader io.Reader) ([]domain.Post, error) {
	args := m.Called(ctx, reader)

	// Handle nil posts
	var posts []domain.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.Post)
	}
	return posts, args.Error(1)
}

type MockMediaResolver struct {
	mock.Mock
}

func (m *MockMediaResolver) ResolveMedia(ctx context.Context, id int) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
