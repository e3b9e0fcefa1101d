// Package dto provides data transfer objects for the audit log HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/proxyadmin/internal/audit/domain"
)

// EntryResponse represents one audit log entry in API responses.
type EntryResponse struct {
	ID         uuid.UUID      `json:"id"`
	UserID     int64          `json:"user_id"`
	ObjectType string         `json:"object_type"`
	ObjectID   int64          `json:"object_id"`
	Action     string         `json:"action"`
	Meta       map[string]any `json:"meta,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListEntriesResponse represents a paginated list of audit log entries.
type ListEntriesResponse struct {
	Data []EntryResponse `json:"data"`
}

// MapEntriesToListResponse converts domain entries to a list response.
func MapEntriesToListResponse(entries []*domain.Entry) ListEntriesResponse {
	entryResponses := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryResponses = append(entryResponses, EntryResponse{
			ID:         entry.ID,
			UserID:     entry.UserID,
			ObjectType: entry.ObjectType,
			ObjectID:   entry.ObjectID,
			Action:     entry.Action,
			Meta:       entry.Meta,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return ListEntriesResponse{Data: entryResponses}
}
