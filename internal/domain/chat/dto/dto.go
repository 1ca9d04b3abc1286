package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageRequest is the body of POST /api/v1/chats/{chatId}/messages.
// Any client timestamp is ignored; the store assigns one.
type SendMessageRequest struct {
	Recipient uuid.UUID `json:"recipient"`
	Text      string    `json:"text"`
}

// ChannelAccess is what the caller may currently do on a channel.
type ChannelAccess struct {
	ChatID   uuid.UUID `json:"chat_id"`
	CanRead  bool      `json:"can_read"`
	CanWrite bool      `json:"can_write"`
}

// MessageAppended is published after a message commits
type MessageAppended struct {
	ChatID    uuid.UUID `json:"chat_id"`
	Sender    uuid.UUID `json:"sender"`
	Recipient uuid.UUID `json:"recipient"`
	Datetime  time.Time `json:"datetime"`
}
