// Package domain defines TCP/UDP stream forwarding entities.
package domain

import (
	"time"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// ObjectType is the audit log object type for streams.
const ObjectType = "stream"

// ErrStreamNotFound indicates the requested stream does not exist.
var ErrStreamNotFound = apperrors.Wrap(apperrors.ErrNotFound, "stream not found")

// Stream is a TCP/UDP port forward.
type Stream struct {
	ID             int64
	OwnerUserID    int64
	IncomingPort   int
	ForwardHost    string
	ForwardingPort int
	TCPForwarding  bool
	UDPForwarding  bool
	Enabled        bool
	IsDeleted      bool
	Meta           map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateStreamInput contains the parameters for creating a stream.
// OwnerUserID is only honored for internal callers.
type CreateStreamInput struct {
	OwnerUserID    int64
	IncomingPort   int
	ForwardHost    string
	ForwardingPort int
	TCPForwarding  bool
	UDPForwarding  bool
	Meta           map[string]any
}

// UpdateStreamInput contains the mutable fields of a stream.
type UpdateStreamInput struct {
	IncomingPort   int
	ForwardHost    string
	ForwardingPort int
	TCPForwarding  bool
	UDPForwarding  bool
	Meta           map[string]any
}
