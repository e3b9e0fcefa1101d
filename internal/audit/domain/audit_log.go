// Package domain defines the audit log model.
//
// Every mutating operation on a managed object leaves one immutable entry
// recording who did what to which object. Entries are written by the
// usecases, never by handlers, so internal actors are captured too.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionEnabled  = "enabled"
	ActionDisabled = "disabled"
)

// Entry is one audit log record. UserID is zero for internal actors.
type Entry struct {
	ID         uuid.UUID
	UserID     int64
	ObjectType string
	ObjectID   int64
	Action     string
	Meta       map[string]any
	CreatedAt  time.Time
}
