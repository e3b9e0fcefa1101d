// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
)

// MockAccessListUseCase is a mock implementation of AccessListUseCase for
// testing.
type MockAccessListUseCase struct {
	mock.Mock
}

// Create mocks the Create method of AccessListUseCase.
func (m *MockAccessListUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateAccessListInput,
) (*domain.AccessList, error) {
	args := m.Called(ctx, access, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessList), args.Error(1)
}

// Get mocks the Get method of AccessListUseCase.
func (m *MockAccessListUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.AccessList, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessList), args.Error(1)
}

// List mocks the List method of AccessListUseCase.
func (m *MockAccessListUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.AccessList, error) {
	args := m.Called(ctx, access, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccessList), args.Error(1)
}

// Update mocks the Update method of AccessListUseCase.
func (m *MockAccessListUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateAccessListInput,
) (*domain.AccessList, error) {
	args := m.Called(ctx, access, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessList), args.Error(1)
}

// Delete mocks the Delete method of AccessListUseCase.
func (m *MockAccessListUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	args := m.Called(ctx, access, id)
	return args.Error(0)
}
