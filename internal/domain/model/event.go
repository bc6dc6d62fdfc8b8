package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a completed write.
type EventType string

// Event types emitted by the service.
const (
	EventProfileCreated       EventType = "profile.created"
	EventProfileUpdated       EventType = "profile.updated"
	EventJobCreated           EventType = "job.created"
	EventApplicationSubmitted EventType = "application.submitted"
)

// Event records a completed write for subscribers.
type Event struct {
	ID         string          `json:"id"`          // unique id for idempotency
	Type       EventType       `json:"type"`        // what happened
	SubjectID  string          `json:"subject_id"`  // id of the written entity
	OccurredAt time.Time       `json:"occurred_at"` // when the write committed
	Payload    json.RawMessage `json:"payload"`     // entity snapshot
}

// NewEvent builds an event with a fresh id and a JSON snapshot of payload.
func NewEvent(typ EventType, subjectID string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}
