package entities

import "github.com/google/uuid"

// State of an (event, creator, participant) triple.
type State string

const (
	StateNone    State = "NONE"
	StatePending State = "PENDING"
	StateMatched State = "MATCHED"
	StateBlocked State = "BLOCKED"
)

// Key identifies a match record. At most one record exists per key.
type Key struct {
	EventID     uuid.UUID
	Creator     uuid.UUID
	Participant uuid.UUID
}

// Match is a row of the matches table.
// Mutual only moves false to true; ChatID is set exactly once, together with Mutual;
// ChatBlock holds the blocker's id and is never cleared.
type Match struct {
	EventID     uuid.UUID  `gorm:"column:event_id;type:uuid;not null" json:"event_id"`
	Creator     uuid.UUID  `gorm:"column:creator;type:uuid;not null" json:"creator"`
	Participant uuid.UUID  `gorm:"column:participant;type:uuid;not null" json:"participant"`
	Mutual      bool       `gorm:"column:match;not null" json:"match"`
	ChatID      *uuid.UUID `gorm:"column:chat_id;type:uuid" json:"chat_id,omitempty"`
	ChatBlock   *string    `gorm:"column:chat_block" json:"chat_block,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

func (m Match) Key() Key {
	return Key{EventID: m.EventID, Creator: m.Creator, Participant: m.Participant}
}

func (m Match) State() State {
	switch {
	case m.ChatBlock != nil:
		return StateBlocked
	case m.Mutual:
		return StateMatched
	default:
		return StatePending
	}
}

// HasParty reports whether user is creator or participant.
func (m Match) HasParty(user uuid.UUID) bool {
	return user == m.Creator || user == m.Participant
}

// Counterpart returns the other party of the match.
func (m Match) Counterpart(user uuid.UUID) (uuid.UUID, bool) {
	switch user {
	case m.Creator:
		return m.Participant, true
	case m.Participant:
		return m.Creator, true
	}
	return uuid.Nil, false
}

// Invite is a row of match_invites: the creator's interest recorded before the participant's.
type Invite struct {
	EventID     uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey"`
	Creator     uuid.UUID `gorm:"column:creator;type:uuid;primaryKey"`
	Participant uuid.UUID `gorm:"column:participant;type:uuid;primaryKey"`
}

func (Invite) TableName() string {
	return "match_invites"
}

// Outcome is what the engine reports after an operation.
type Outcome struct {
	State  State      `json:"state"`
	Match  *Match     `json:"match,omitempty"`
	ChatID *uuid.UUID `json:"chat_id,omitempty"`
}

// OutcomeOf builds an Outcome from a stored record.
func OutcomeOf(m *Match) Outcome {
	if m == nil {
		return Outcome{State: StateNone}
	}
	return Outcome{State: m.State(), Match: m, ChatID: m.ChatID}
}
