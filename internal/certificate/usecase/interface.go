// Package usecase contains the business logic for certificate records.
package usecase

import (
	"context"

	"github.com/allisson/proxyadmin/internal/certificate/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
)

// CertificateRepository defines the data access contract for certificates.
type CertificateRepository interface {
	Create(ctx context.Context, cert *domain.Certificate) error
	GetByID(ctx context.Context, id int64) (*domain.Certificate, error)
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Certificate, error)
	Update(ctx context.Context, cert *domain.Certificate) error
	SoftDelete(ctx context.Context, id int64) error
}

// CertificateUseCase defines the business operations for certificates.
type CertificateUseCase interface {
	Create(ctx context.Context, access *accessUseCase.Context, input *domain.CreateCertificateInput) (*domain.Certificate, error)
	Get(ctx context.Context, access *accessUseCase.Context, id int64) (*domain.Certificate, error)
	List(ctx context.Context, access *accessUseCase.Context, offset, limit int) ([]*domain.Certificate, error)
	Update(ctx context.Context, access *accessUseCase.Context, id int64, input *domain.UpdateCertificateInput) (*domain.Certificate, error)
	Delete(ctx context.Context, access *accessUseCase.Context, id int64) error
}
