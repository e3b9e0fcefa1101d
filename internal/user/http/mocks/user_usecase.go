// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/user/domain"
	"github.com/allisson/proxyadmin/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of UserUseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// Create mocks the Create method of UserUseCase.
func (m *MockUserUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateUserInput,
) (*domain.User, error) {
	args := m.Called(ctx, access, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Get mocks the Get method of UserUseCase.
func (m *MockUserUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) (*domain.User, error) {
	args := m.Called(ctx, access, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// List mocks the List method of UserUseCase.
func (m *MockUserUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.User, error) {
	args := m.Called(ctx, access, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// Update mocks the Update method of UserUseCase.
func (m *MockUserUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	input *domain.UpdateUserInput,
) (*domain.User, error) {
	args := m.Called(ctx, access, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Delete mocks the Delete method of UserUseCase.
func (m *MockUserUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) error {
	args := m.Called(ctx, access, userID)
	return args.Error(0)
}

// SetPassword mocks the SetPassword method of UserUseCase.
func (m *MockUserUseCase) SetPassword(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	input *usecase.SetPasswordInput,
) error {
	args := m.Called(ctx, access, userID, input)
	return args.Error(0)
}

// SetPermissions mocks the SetPermissions method of UserUseCase.
func (m *MockUserUseCase) SetPermissions(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	profile *accessDomain.Profile,
) error {
	args := m.Called(ctx, access, userID, profile)
	return args.Error(0)
}
