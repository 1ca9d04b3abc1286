package dto

import (
	"time"

	"github.com/google/uuid"
)

// MatchPromoted is published when a record becomes mutual and its channel opens
type MatchPromoted struct {
	EventID     uuid.UUID `json:"event_id"`
	Creator     uuid.UUID `json:"creator"`
	Participant uuid.UUID `json:"participant"`
	ChatID      uuid.UUID `json:"chat_id"`
	MatchedAt   time.Time `json:"matched_at"`
}

// MatchBlocked is published when a record enters the terminal blocked state
type MatchBlocked struct {
	EventID     uuid.UUID  `json:"event_id"`
	Creator     uuid.UUID  `json:"creator"`
	Participant uuid.UUID  `json:"participant"`
	ChatID      *uuid.UUID `json:"chat_id,omitempty"`
	BlockedBy   uuid.UUID  `json:"blocked_by"`
	BlockedAt   time.Time  `json:"blocked_at"`
}
