// Package mocks contains mock implementations for testing audit log HTTP
// handlers and CLI commands.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/audit/domain"
)

// MockAuditLogUseCase is a mock implementation of usecase.AuditLogUseCase.
type MockAuditLogUseCase struct {
	mock.Mock
}

func (m *MockAuditLogUseCase) Record(
	ctx context.Context,
	access *accessUseCase.Context,
	objectType string,
	objectID int64,
	action string,
	meta map[string]any,
) error {
	args := m.Called(ctx, access, objectType, objectID, action, meta)
	return args.Error(0)
}

func (m *MockAuditLogUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	args := m.Called(ctx, access, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entry), args.Error(1)
}

func (m *MockAuditLogUseCase) Clean(
	ctx context.Context,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
