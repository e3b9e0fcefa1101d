package dto

import (
	"time"

	"github.com/allisson/proxyadmin/internal/stream/domain"
)

// StreamResponse represents a stream in API responses.
type StreamResponse struct {
	ID             int64          `json:"id"`
	OwnerUserID    int64          `json:"owner_user_id"`
	IncomingPort   int            `json:"incoming_port"`
	ForwardHost    string         `json:"forward_host"`
	ForwardingPort int            `json:"forwarding_port"`
	TCPForwarding  bool           `json:"tcp_forwarding"`
	UDPForwarding  bool           `json:"udp_forwarding"`
	Enabled        bool           `json:"enabled"`
	Meta           map[string]any `json:"meta,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// MapStreamToResponse converts a domain stream to an API response.
func MapStreamToResponse(stream *domain.Stream) StreamResponse {
	return StreamResponse{
		ID:             stream.ID,
		OwnerUserID:    stream.OwnerUserID,
		IncomingPort:   stream.IncomingPort,
		ForwardHost:    stream.ForwardHost,
		ForwardingPort: stream.ForwardingPort,
		TCPForwarding:  stream.TCPForwarding,
		UDPForwarding:  stream.UDPForwarding,
		Enabled:        stream.Enabled,
		Meta:           stream.Meta,
		CreatedAt:      stream.CreatedAt,
		UpdatedAt:      stream.UpdatedAt,
	}
}

// ListStreamsResponse represents a paginated list of streams in API responses.
type ListStreamsResponse struct {
	Data []StreamResponse `json:"data"`
}

// MapStreamsToListResponse converts a slice of domain streams to a list response.
func MapStreamsToListResponse(streams []*domain.Stream) ListStreamsResponse {
	streamResponses := make([]StreamResponse, 0, len(streams))
	for _, stream := range streams {
		streamResponses = append(streamResponses, MapStreamToResponse(stream))
	}
	return ListStreamsResponse{
		Data: streamResponses,
	}
}
