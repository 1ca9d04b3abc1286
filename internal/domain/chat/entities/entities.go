package entities

import (
	"time"

	"github.com/google/uuid"
)

// MaxTextLength bounds chat_text in characters.
const MaxTextLength = 2000

// Message is a row of the chats table. Rows are append-only.
type Message struct {
	ChatID    uuid.UUID `gorm:"column:chat_id;type:uuid;primaryKey" json:"chat_id"`
	ChatText  string    `gorm:"column:chat_text" json:"chat_text"`
	Datetime  time.Time `gorm:"column:datetime;primaryKey" json:"datetime"`
	Sender    uuid.UUID `gorm:"column:sender;type:uuid" json:"sender"`
	Recipient uuid.UUID `gorm:"column:recipient;type:uuid" json:"recipient"`
}

func (Message) TableName() string {
	return "chats"
}

// Receipt acknowledges an accepted message.
type Receipt struct {
	ChatID   uuid.UUID `json:"chat_id"`
	Datetime time.Time `json:"datetime"`
	Sender   uuid.UUID `json:"sender"`
}

// NextTimestamp returns the timestamp to assign after last, given the current time.
// Storage keeps microseconds, so results are truncated to that precision and are
// strictly greater than last.
func NextTimestamp(now, last time.Time) time.Time {
	ts := now.UTC().Truncate(time.Microsecond)
	if !last.IsZero() && !ts.After(last) {
		ts = last.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return ts
}
