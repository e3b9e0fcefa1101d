// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/proxyadmin/internal/certificate/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
)

// MockCertificateUseCase is a mock implementation of CertificateUseCase for
// testing.
type MockCertificateUseCase struct {
	mock.Mock
}

// Create mocks the Create method of CertificateUseCase.
func (m *MockCertificateUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateCertificateInput,
) (*domain.Certificate, error) {
	args := m.Called(ctx, access, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

// Get mocks the Get method of CertificateUseCase.
func (m *MockCertificateUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.Certificate, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

// List mocks the List method of CertificateUseCase.
func (m *MockCertificateUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Certificate, error) {
	args := m.Called(ctx, access, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Certificate), args.Error(1)
}

// Update mocks the Update method of CertificateUseCase.
func (m *MockCertificateUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateCertificateInput,
) (*domain.Certificate, error) {
	args := m.Called(ctx, access, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Certificate), args.Error(1)
}

// Delete mocks the Delete method of CertificateUseCase.
func (m *MockCertificateUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	args := m.Called(ctx, access, id)
	return args.Error(0)
}
