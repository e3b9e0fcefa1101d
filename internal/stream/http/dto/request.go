// Package dto provides data transfer objects for the stream HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/stream/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// StreamRequest carries the writable fields of a stream. The same shape
// serves create and update.
type StreamRequest struct {
	OwnerUserID    int64          `json:"owner_user_id,omitempty"`
	IncomingPort   int            `json:"incoming_port"`
	ForwardHost    string         `json:"forward_host"`
	ForwardingPort int            `json:"forwarding_port"`
	TCPForwarding  bool           `json:"tcp_forwarding"`
	UDPForwarding  bool           `json:"udp_forwarding"`
	Meta           map[string]any `json:"meta,omitempty"`
}

// Validate checks the structural shape of the request. Cross-field rules
// live in the use case.
func (r *StreamRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IncomingPort,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&r.ForwardHost,
			validation.Required,
			appValidation.NotBlank,
		),
		validation.Field(&r.ForwardingPort,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
	)
}

// ToCreateStreamInput converts the request to a use case input.
func (r *StreamRequest) ToCreateStreamInput() *domain.CreateStreamInput {
	return &domain.CreateStreamInput{
		OwnerUserID:    r.OwnerUserID,
		IncomingPort:   r.IncomingPort,
		ForwardHost:    r.ForwardHost,
		ForwardingPort: r.ForwardingPort,
		TCPForwarding:  r.TCPForwarding,
		UDPForwarding:  r.UDPForwarding,
		Meta:           r.Meta,
	}
}

// ToUpdateStreamInput converts the request to a use case input.
func (r *StreamRequest) ToUpdateStreamInput() *domain.UpdateStreamInput {
	return &domain.UpdateStreamInput{
		IncomingPort:   r.IncomingPort,
		ForwardHost:    r.ForwardHost,
		ForwardingPort: r.ForwardingPort,
		TCPForwarding:  r.TCPForwarding,
		UDPForwarding:  r.UDPForwarding,
		Meta:           r.Meta,
	}
}

// SetEnabledRequest toggles a stream's enabled flag.
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate checks that the enabled flag is present.
func (r *SetEnabledRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Enabled, validation.NotNil),
	)
}
