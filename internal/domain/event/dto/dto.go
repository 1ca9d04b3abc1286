package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

// CreateEventRequest is the body of POST /api/v1/events
type CreateEventRequest struct {
	ActivityID  uuid.UUID   `json:"activity_id"`
	Location    point.Point `json:"location"`
	MinAge      int         `json:"min_age"`
	MaxAge      int         `json:"max_age"`
	PrefGenders []string    `json:"pref_genders"`
	Description string      `json:"description"`
}

type CreateEventResponse struct {
	EventID uuid.UUID `json:"event_id"`
}

// EventCreated is published after an event is stored
type EventCreated struct {
	EventID     uuid.UUID `json:"event_id"`
	ActivityID  uuid.UUID `json:"activity_id"`
	InitiatedBy uuid.UUID `json:"initiated_by"`
	InitiatedOn time.Time `json:"initiated_on"`
}

// EventClosed is published when is_open flips to false
type EventClosed struct {
	EventID  uuid.UUID `json:"event_id"`
	Reason   string    `json:"reason"`
	ClosedAt time.Time `json:"closed_at"`
}
