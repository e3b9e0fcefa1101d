// Package mocks contains mock implementations for testing setting HTTP
// handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/setting/domain"
)

// MockSettingUseCase is a mock implementation of usecase.SettingUseCase.
type MockSettingUseCase struct {
	mock.Mock
}

func (m *MockSettingUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id string,
) (*domain.Setting, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Setting), args.Error(1)
}

func (m *MockSettingUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
) ([]*domain.Setting, error) {
	args := m.Called(ctx, access)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Setting), args.Error(1)
}

func (m *MockSettingUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id string,
	input *domain.UpdateSettingInput,
) (*domain.Setting, error) {
	args := m.Called(ctx, access, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Setting), args.Error(1)
}
