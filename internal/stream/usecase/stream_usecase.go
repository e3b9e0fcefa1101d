package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	auditDomain "github.com/allisson/proxyadmin/internal/audit/domain"
	auditUseCase "github.com/allisson/proxyadmin/internal/audit/usecase"
	"github.com/allisson/proxyadmin/internal/stream/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// streamUseCase implements StreamUseCase.
type streamUseCase struct {
	streamRepo StreamRepository
	auditor    auditUseCase.Recorder
	logger     *slog.Logger
}

// NewStreamUseCase creates a new StreamUseCase.
func NewStreamUseCase(
	streamRepo StreamRepository,
	auditor auditUseCase.Recorder,
	logger *slog.Logger,
) StreamUseCase {
	return &streamUseCase{
		streamRepo: streamRepo,
		auditor:    auditor,
		logger:     logger,
	}
}

func validateStreamFields(stream *domain.Stream) error {
	err := validation.ValidateStruct(stream,
		validation.Field(&stream.IncomingPort,
			validation.Required.Error("incoming port is required"),
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&stream.ForwardHost,
			validation.Required.Error("forward host is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&stream.ForwardingPort,
			validation.Required.Error("forwarding port is required"),
			validation.Min(1),
			validation.Max(65535),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if !stream.TCPForwarding && !stream.UDPForwarding {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "at least one of tcp or udp forwarding must be enabled")
	}
	return nil
}

// Create registers a new stream owned by the caller.
func (s *streamUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateStreamInput,
) (*domain.Stream, error) {
	owner := input.OwnerUserID
	if !access.IsInternal() {
		if err := access.Resolve(ctx); err != nil {
			return nil, err
		}
		owner = access.UserID()
	}

	if err := access.Can(ctx, "streams:create", owner); err != nil {
		return nil, err
	}
	if owner <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner user id is required")
	}

	stream := &domain.Stream{
		OwnerUserID:    owner,
		IncomingPort:   input.IncomingPort,
		ForwardHost:    input.ForwardHost,
		ForwardingPort: input.ForwardingPort,
		TCPForwarding:  input.TCPForwarding,
		UDPForwarding:  input.UDPForwarding,
		Enabled:        true,
		Meta:           input.Meta,
	}
	if err := validateStreamFields(stream); err != nil {
		return nil, err
	}

	if err := s.streamRepo.Create(ctx, stream); err != nil {
		return nil, err
	}

	// Later checks on the same context must see the new row.
	if _, err := access.ReloadObjects(ctx, "streams"); err != nil {
		s.logger.Warn("failed to refresh object enumeration after stream create",
			slog.Int64("stream_id", stream.ID),
			slog.String("error", err.Error()),
		)
	}

	s.record(ctx, access, stream, auditDomain.ActionCreated)
	return stream, nil
}

// Get retrieves a single stream.
func (s *streamUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.Stream, error) {
	if err := access.Can(ctx, "streams:get", id); err != nil {
		return nil, err
	}
	return s.streamRepo.GetByID(ctx, id)
}

// List returns the streams visible to the caller.
func (s *streamUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Stream, error) {
	if err := access.Can(ctx, "streams:list", nil); err != nil {
		return nil, err
	}
	return s.streamRepo.List(ctx, s.ownerScope(access), offset, limit)
}

// Update replaces the mutable fields of a stream.
func (s *streamUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateStreamInput,
) (*domain.Stream, error) {
	if err := access.Can(ctx, "streams:update", id); err != nil {
		return nil, err
	}

	stream, err := s.streamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stream.IncomingPort = input.IncomingPort
	stream.ForwardHost = input.ForwardHost
	stream.ForwardingPort = input.ForwardingPort
	stream.TCPForwarding = input.TCPForwarding
	stream.UDPForwarding = input.UDPForwarding
	stream.Meta = input.Meta

	if err := validateStreamFields(stream); err != nil {
		return nil, err
	}
	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return nil, err
	}

	s.record(ctx, access, stream, auditDomain.ActionUpdated)
	return stream, nil
}

// Delete soft-deletes a stream.
func (s *streamUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	if err := access.Can(ctx, "streams:delete", id); err != nil {
		return err
	}

	stream, err := s.streamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.streamRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, access, stream, auditDomain.ActionDeleted)
	return nil
}

// SetEnabled enables or disables a stream.
func (s *streamUseCase) SetEnabled(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	enabled bool,
) (*domain.Stream, error) {
	if err := access.Can(ctx, "streams:update", id); err != nil {
		return nil, err
	}

	stream, err := s.streamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stream.Enabled == enabled {
		return stream, nil
	}

	if err := s.streamRepo.SetEnabled(ctx, id, enabled); err != nil {
		return nil, err
	}
	stream.Enabled = enabled

	action := auditDomain.ActionDisabled
	if enabled {
		action = auditDomain.ActionEnabled
	}
	s.record(ctx, access, stream, action)
	return stream, nil
}

// ownerScope returns the owner filter for list queries: zero when the caller
// sees every object, the caller's own ID otherwise.
func (s *streamUseCase) ownerScope(access *accessUseCase.Context) int64 {
	if access.SeesAllObjects() {
		return 0
	}
	return access.User().ID
}

func (s *streamUseCase) record(
	ctx context.Context,
	access *accessUseCase.Context,
	stream *domain.Stream,
	action string,
) {
	meta := map[string]any{"incoming_port": stream.IncomingPort}
	err := s.auditor.Record(ctx, access, domain.ObjectType, stream.ID, action, meta)
	if err != nil {
		s.logger.Warn("failed to record audit log entry",
			slog.String("object_type", domain.ObjectType),
			slog.Int64("object_id", stream.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
