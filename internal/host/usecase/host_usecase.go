package usecase

import (
	"context"
	"log/slog"
	"slices"

	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	auditDomain "github.com/allisson/proxyadmin/internal/audit/domain"
	auditUseCase "github.com/allisson/proxyadmin/internal/audit/usecase"
	"github.com/allisson/proxyadmin/internal/host/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// hostUseCase implements HostUseCase for all three host kinds.
type hostUseCase struct {
	hostRepo HostRepository
	streams  StreamCounter
	auditor  auditUseCase.Recorder
	logger   *slog.Logger
}

// NewHostUseCase creates a new HostUseCase.
func NewHostUseCase(
	hostRepo HostRepository,
	streams StreamCounter,
	auditor auditUseCase.Recorder,
	logger *slog.Logger,
) HostUseCase {
	return &hostUseCase{
		hostRepo: hostRepo,
		streams:  streams,
		auditor:  auditor,
		logger:   logger,
	}
}

var redirectionHTTPCodes = []any{300, 301, 302, 303, 307, 308}

func validateHostFields(hostType domain.Type, host *domain.Host) error {
	rules := []*validation.FieldRules{
		validation.Field(&host.DomainNames,
			validation.Required.Error("domain names are required"),
			validation.Length(1, 30),
			validation.Each(appValidation.DomainName),
		),
	}

	switch hostType {
	case domain.TypeProxy:
		rules = append(rules,
			validation.Field(&host.ForwardHost,
				validation.Required.Error("forward host is required"),
				appValidation.NotBlank,
				validation.Length(1, 100),
			),
			validation.Field(&host.ForwardPort,
				validation.Required.Error("forward port is required"),
				validation.Min(1),
				validation.Max(65535),
			),
		)
	case domain.TypeRedirection:
		rules = append(rules,
			validation.Field(&host.ForwardDomainName,
				validation.Required.Error("forward domain name is required"),
				appValidation.DomainName,
			),
			validation.Field(&host.ForwardHTTPCode,
				validation.Required.Error("forward http code is required"),
				validation.In(redirectionHTTPCodes...).Error("forward http code must be a redirect status code"),
			),
		)
	case domain.TypeDead:
		// A 404 host needs nothing beyond its domain names.
	}

	err := validation.ValidateStruct(host, rules...)
	return appValidation.WrapValidationError(err)
}

// Create registers a new host owned by the caller.
func (h *hostUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	input *domain.CreateHostInput,
) (*domain.Host, error) {
	if !hostType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}

	owner := input.OwnerUserID
	if !access.IsInternal() {
		if err := access.Resolve(ctx); err != nil {
			return nil, err
		}
		owner = access.UserID()
	}

	key := permissionKey(hostType, "create")
	if err := access.Can(ctx, key, owner); err != nil {
		return nil, err
	}
	if owner <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner user id is required")
	}

	host := &domain.Host{
		Type:              hostType,
		OwnerUserID:       owner,
		DomainNames:       slices.Clone(input.DomainNames),
		ForwardHost:       input.ForwardHost,
		ForwardPort:       input.ForwardPort,
		AccessListID:      input.AccessListID,
		ForwardDomainName: input.ForwardDomainName,
		ForwardHTTPCode:   input.ForwardHTTPCode,
		PreservePath:      input.PreservePath,
		CertificateID:     input.CertificateID,
		SSLForced:         input.SSLForced,
		CachingEnabled:    input.CachingEnabled,
		BlockExploits:     input.BlockExploits,
		AdvancedConfig:    input.AdvancedConfig,
		Enabled:           true,
		Meta:              input.Meta,
	}
	if err := validateHostFields(hostType, host); err != nil {
		return nil, err
	}

	if err := h.hostRepo.Create(ctx, host); err != nil {
		return nil, err
	}

	// Later checks on the same context must see the new row.
	if _, err := access.ReloadObjects(ctx, hostType.ResourceType()); err != nil {
		h.logger.Warn("failed to refresh object enumeration after host create",
			slog.String("host_type", string(hostType)),
			slog.Int64("host_id", host.ID),
			slog.String("error", err.Error()),
		)
	}

	h.record(ctx, access, host, auditDomain.ActionCreated)
	return host, nil
}

// Get retrieves a single host.
func (h *hostUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
) (*domain.Host, error) {
	if !hostType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}
	if err := access.Can(ctx, permissionKey(hostType, "get"), id); err != nil {
		return nil, err
	}
	return h.hostRepo.GetByID(ctx, hostType, id)
}

// List returns the hosts visible to the caller.
func (h *hostUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	offset, limit int,
) ([]*domain.Host, error) {
	if !hostType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}
	if err := access.Can(ctx, permissionKey(hostType, "list"), nil); err != nil {
		return nil, err
	}
	return h.hostRepo.List(ctx, hostType, h.ownerScope(access), offset, limit)
}

// Update replaces the mutable fields of a host.
func (h *hostUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
	input *domain.UpdateHostInput,
) (*domain.Host, error) {
	if !hostType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}
	if err := access.Can(ctx, permissionKey(hostType, "update"), id); err != nil {
		return nil, err
	}

	host, err := h.hostRepo.GetByID(ctx, hostType, id)
	if err != nil {
		return nil, err
	}

	host.DomainNames = slices.Clone(input.DomainNames)
	host.ForwardHost = input.ForwardHost
	host.ForwardPort = input.ForwardPort
	host.AccessListID = input.AccessListID
	host.ForwardDomainName = input.ForwardDomainName
	host.ForwardHTTPCode = input.ForwardHTTPCode
	host.PreservePath = input.PreservePath
	host.CertificateID = input.CertificateID
	host.SSLForced = input.SSLForced
	host.CachingEnabled = input.CachingEnabled
	host.BlockExploits = input.BlockExploits
	host.AdvancedConfig = input.AdvancedConfig
	host.Meta = input.Meta

	if err := validateHostFields(hostType, host); err != nil {
		return nil, err
	}
	if err := h.hostRepo.Update(ctx, host); err != nil {
		return nil, err
	}

	h.record(ctx, access, host, auditDomain.ActionUpdated)
	return host, nil
}

// Delete soft-deletes a host.
func (h *hostUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
) error {
	if !hostType.Valid() {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}
	if err := access.Can(ctx, permissionKey(hostType, "delete"), id); err != nil {
		return err
	}

	host, err := h.hostRepo.GetByID(ctx, hostType, id)
	if err != nil {
		return err
	}
	if err := h.hostRepo.SoftDelete(ctx, hostType, id); err != nil {
		return err
	}

	h.record(ctx, access, host, auditDomain.ActionDeleted)
	return nil
}

// SetEnabled enables or disables a host.
func (h *hostUseCase) SetEnabled(
	ctx context.Context,
	access *accessUseCase.Context,
	hostType domain.Type,
	id int64,
	enabled bool,
) (*domain.Host, error) {
	if !hostType.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown host type %q", hostType)
	}
	if err := access.Can(ctx, permissionKey(hostType, "update"), id); err != nil {
		return nil, err
	}

	host, err := h.hostRepo.GetByID(ctx, hostType, id)
	if err != nil {
		return nil, err
	}
	if host.Enabled == enabled {
		return host, nil
	}

	if err := h.hostRepo.SetEnabled(ctx, hostType, id, enabled); err != nil {
		return nil, err
	}
	host.Enabled = enabled

	action := auditDomain.ActionDisabled
	if enabled {
		action = auditDomain.ActionEnabled
	}
	h.record(ctx, access, host, action)
	return host, nil
}

// Report aggregates the host and stream counts visible to the caller. The
// four counts are gathered concurrently.
func (h *hostUseCase) Report(
	ctx context.Context,
	access *accessUseCase.Context,
) (*domain.Report, error) {
	if err := access.Can(ctx, "reports:hosts", nil); err != nil {
		return nil, err
	}

	ownerID := h.ownerScope(access)
	report := &domain.Report{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := h.hostRepo.Count(gctx, domain.TypeProxy, ownerID)
		report.Proxy = count
		return err
	})
	g.Go(func() error {
		count, err := h.hostRepo.Count(gctx, domain.TypeRedirection, ownerID)
		report.Redirection = count
		return err
	})
	g.Go(func() error {
		count, err := h.hostRepo.Count(gctx, domain.TypeDead, ownerID)
		report.Dead = count
		return err
	})
	g.Go(func() error {
		count, err := h.streams.Count(gctx, ownerID)
		report.Streams = count
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// ownerScope returns the owner filter for list and count queries: zero when
// the caller sees every object, the caller's own ID otherwise.
func (h *hostUseCase) ownerScope(access *accessUseCase.Context) int64 {
	if access.SeesAllObjects() {
		return 0
	}
	return access.User().ID
}

func (h *hostUseCase) record(
	ctx context.Context,
	access *accessUseCase.Context,
	host *domain.Host,
	action string,
) {
	meta := map[string]any{"domain_names": host.DomainNames}
	err := h.auditor.Record(ctx, access, host.Type.ObjectType(), host.ID, action, meta)
	if err != nil {
		h.logger.Warn("failed to record audit log entry",
			slog.String("object_type", host.Type.ObjectType()),
			slog.Int64("object_id", host.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

func permissionKey(hostType domain.Type, action string) accessDomain.PermissionKey {
	return accessDomain.PermissionKey(string(hostType.ResourceType()) + ":" + action)
}
