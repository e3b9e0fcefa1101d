// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/stream/domain"
)

// MockStreamUseCase is a mock implementation of StreamUseCase for testing.
type MockStreamUseCase struct {
	mock.Mock
}

// Create mocks the Create method of StreamUseCase.
func (m *MockStreamUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateStreamInput,
) (*domain.Stream, error) {
	args := m.Called(ctx, access, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

// Get mocks the Get method of StreamUseCase.
func (m *MockStreamUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.Stream, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

// List mocks the List method of StreamUseCase.
func (m *MockStreamUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Stream, error) {
	args := m.Called(ctx, access, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Stream), args.Error(1)
}

// Update mocks the Update method of StreamUseCase.
func (m *MockStreamUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateStreamInput,
) (*domain.Stream, error) {
	args := m.Called(ctx, access, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

// Delete mocks the Delete method of StreamUseCase.
func (m *MockStreamUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	args := m.Called(ctx, access, id)
	return args.Error(0)
}

// SetEnabled mocks the SetEnabled method of StreamUseCase.
func (m *MockStreamUseCase) SetEnabled(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	enabled bool,
) (*domain.Stream, error) {
	args := m.Called(ctx, access, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}
