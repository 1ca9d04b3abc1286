package entities

import (
	"fmt"

	"github.com/google/uuid"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
)

// Row rules the schema cannot declare. Loaders apply them inside the load transaction.

// CheckMatch requires the record's creator to be the initiator of its event.
func CheckMatch(m *matchent.Match, initiatedBy uuid.UUID) error {
	if m.Creator != initiatedBy {
		return fmt.Errorf("creator: %w: %s did not initiate event %s", importerrors.ErrInvalidValue, m.Creator, m.EventID)
	}
	return nil
}

// CheckMessage requires a message to travel between the two parties of the mutual
// record owning its channel.
func CheckMessage(owner *matchent.Match, msg *chatent.Message) error {
	if !owner.Mutual {
		return fmt.Errorf("chat_id: %w: channel %s is not active", importerrors.ErrInvalidValue, msg.ChatID)
	}
	if counterpart, ok := owner.Counterpart(msg.Sender); !ok || counterpart != msg.Recipient {
		return fmt.Errorf("sender: %w: %s -> %s is not between the parties of channel %s",
			importerrors.ErrInvalidValue, msg.Sender, msg.Recipient, msg.ChatID)
	}
	return nil
}
