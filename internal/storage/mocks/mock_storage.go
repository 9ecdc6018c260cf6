package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, path string, file io.Reader, contentType string) error {
	args := m.Called(ctx, path, file, contentType)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockStorage) URL(ctx context.Context, path string) string {
	args := m.Called(ctx, path)
	return args.String(0)
}
