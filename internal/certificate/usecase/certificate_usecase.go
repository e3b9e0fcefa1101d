package usecase

import (
	"context"
	"log/slog"
	"slices"

	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/certificate/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	auditDomain "github.com/allisson/proxyadmin/internal/audit/domain"
	auditUseCase "github.com/allisson/proxyadmin/internal/audit/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// certificateUseCase implements CertificateUseCase.
type certificateUseCase struct {
	certRepo CertificateRepository
	auditor  auditUseCase.Recorder
	logger   *slog.Logger
}

// NewCertificateUseCase creates a new CertificateUseCase.
func NewCertificateUseCase(
	certRepo CertificateRepository,
	auditor auditUseCase.Recorder,
	logger *slog.Logger,
) CertificateUseCase {
	return &certificateUseCase{
		certRepo: certRepo,
		auditor:  auditor,
		logger:   logger,
	}
}

func validateCertificateFields(cert *domain.Certificate) error {
	err := validation.ValidateStruct(cert,
		validation.Field(&cert.Provider,
			validation.Required.Error("provider is required"),
			validation.In(domain.ProviderLetsEncrypt, domain.ProviderOther).
				Error("provider must be letsencrypt or other"),
		),
		validation.Field(&cert.NiceName, validation.Length(0, 100)),
		validation.Field(&cert.DomainNames,
			validation.Required.Error("domain names are required"),
			validation.Length(1, 30),
			validation.Each(appValidation.DomainName),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new certificate record owned by the caller.
func (u *certificateUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateCertificateInput,
) (*domain.Certificate, error) {
	owner := input.OwnerUserID
	if !access.IsInternal() {
		if err := access.Resolve(ctx); err != nil {
			return nil, err
		}
		owner = access.UserID()
	}

	if err := access.Can(ctx, "certificates:create", owner); err != nil {
		return nil, err
	}
	if owner <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner user id is required")
	}

	cert := &domain.Certificate{
		OwnerUserID: owner,
		Provider:    input.Provider,
		NiceName:    input.NiceName,
		DomainNames: slices.Clone(input.DomainNames),
		ExpiresOn:   input.ExpiresOn,
		Meta:        input.Meta,
	}
	if err := validateCertificateFields(cert); err != nil {
		return nil, err
	}

	if err := u.certRepo.Create(ctx, cert); err != nil {
		return nil, err
	}

	// Later checks on the same context must see the new row.
	if _, err := access.ReloadObjects(ctx, "certificates"); err != nil {
		u.logger.Warn("failed to refresh object enumeration after certificate create",
			slog.Int64("certificate_id", cert.ID),
			slog.String("error", err.Error()),
		)
	}

	u.record(ctx, access, cert, auditDomain.ActionCreated)
	return cert, nil
}

// Get retrieves a single certificate.
func (u *certificateUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.Certificate, error) {
	if err := access.Can(ctx, "certificates:get", id); err != nil {
		return nil, err
	}
	return u.certRepo.GetByID(ctx, id)
}

// List returns the certificates visible to the caller.
func (u *certificateUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Certificate, error) {
	if err := access.Can(ctx, "certificates:list", nil); err != nil {
		return nil, err
	}
	return u.certRepo.List(ctx, u.ownerScope(access), offset, limit)
}

// Update replaces the mutable fields of a certificate. Provider is fixed at
// creation time.
func (u *certificateUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateCertificateInput,
) (*domain.Certificate, error) {
	if err := access.Can(ctx, "certificates:update", id); err != nil {
		return nil, err
	}

	cert, err := u.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cert.NiceName = input.NiceName
	cert.DomainNames = slices.Clone(input.DomainNames)
	cert.ExpiresOn = input.ExpiresOn
	cert.Meta = input.Meta

	if err := validateCertificateFields(cert); err != nil {
		return nil, err
	}
	if err := u.certRepo.Update(ctx, cert); err != nil {
		return nil, err
	}

	u.record(ctx, access, cert, auditDomain.ActionUpdated)
	return cert, nil
}

// Delete soft-deletes a certificate.
func (u *certificateUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	if err := access.Can(ctx, "certificates:delete", id); err != nil {
		return err
	}

	cert, err := u.certRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.certRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	u.record(ctx, access, cert, auditDomain.ActionDeleted)
	return nil
}

// ownerScope returns the owner filter for list queries: zero when the caller
// sees every object, the caller's own ID otherwise.
func (u *certificateUseCase) ownerScope(access *accessUseCase.Context) int64 {
	if access.SeesAllObjects() {
		return 0
	}
	return access.User().ID
}

func (u *certificateUseCase) record(
	ctx context.Context,
	access *accessUseCase.Context,
	cert *domain.Certificate,
	action string,
) {
	meta := map[string]any{"domain_names": cert.DomainNames}
	err := u.auditor.Record(ctx, access, domain.ObjectType, cert.ID, action, meta)
	if err != nil {
		u.logger.Warn("failed to record audit log entry",
			slog.String("object_type", domain.ObjectType),
			slog.Int64("object_id", cert.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
