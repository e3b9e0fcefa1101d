// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/host/domain"
)

// MockHostUseCase is a mock implementation of HostUseCase for testing.
type MockHostUseCase struct {
	mock.Mock
}

// Create mocks the Create method of HostUseCase.
func (m *MockHostUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	input *domain.CreateHostInput,
) (*domain.Host, error) {
	args := m.Called(ctx, access, hostType, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Host), args.Error(1)
}

// Get mocks the Get method of HostUseCase.
func (m *MockHostUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
) (*domain.Host, error) {
	args := m.Called(ctx, access, hostType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Host), args.Error(1)
}

// List mocks the List method of HostUseCase.
func (m *MockHostUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	offset, limit int,
) ([]*domain.Host, error) {
	args := m.Called(ctx, access, hostType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Host), args.Error(1)
}

// Update mocks the Update method of HostUseCase.
func (m *MockHostUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
	input *domain.UpdateHostInput,
) (*domain.Host, error) {
	args := m.Called(ctx, access, hostType, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Host), args.Error(1)
}

// Delete mocks the Delete method of HostUseCase.
func (m *MockHostUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
) error {
	args := m.Called(ctx, access, hostType, id)
	return args.Error(0)
}

// SetEnabled mocks the SetEnabled method of HostUseCase.
func (m *MockHostUseCase) SetEnabled(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
	enabled bool,
) (*domain.Host, error) {
	args := m.Called(ctx, access, hostType, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Host), args.Error(1)
}

// Report mocks the Report method of HostUseCase.
func (m *MockHostUseCase) Report(
	ctx context.Context,
	access *accessUseCase.Context,
) (*domain.Report, error) {
	args := m.Called(ctx, access)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
