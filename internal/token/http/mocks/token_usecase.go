// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Request mocks the Request method of TokenUseCase.
func (m *MockTokenUseCase) Request(
	ctx context.Context,
	input *tokenDomain.RequestTokenInput,
) (*tokenDomain.TokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.TokenOutput), args.Error(1)
}

// Refresh mocks the Refresh method of TokenUseCase.
func (m *MockTokenUseCase) Refresh(
	ctx context.Context,
	access *accessUseCase.Context,
	expiry string,
) (*tokenDomain.TokenOutput, error) {
	args := m.Called(ctx, access, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.TokenOutput), args.Error(1)
}

// SignInAs mocks the SignInAs method of TokenUseCase.
func (m *MockTokenUseCase) SignInAs(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) (*tokenDomain.TokenOutput, *userDomain.User, error) {
	args := m.Called(ctx, access, userID)
	var output *tokenDomain.TokenOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*tokenDomain.TokenOutput)
	}
	var user *userDomain.User
	if args.Get(1) != nil {
		user = args.Get(1).(*userDomain.User)
	}
	return output, user, args.Error(2)
}
