package memory

import (
	"context"
	"errors"
	"fmt"

	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	importent "github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
)

// Loader implements the bulk loader with the constraints the schema declares.
type Loader struct {
	store *Store
}

func (l *Loader) Load(ctx context.Context, table importent.Table, rows []any) error {
	return l.store.transaction(func(t *tables) error {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := loadRow(t, table, row); err != nil {
				return &importerrors.RowError{Index: i, Err: err}
			}
		}
		return nil
	})
}

func loadRow(t *tables, table importent.Table, row any) error {
	switch r := row.(type) {
	case *dirent.User:
		if table != importent.TableUsers {
			break
		}
		if _, exists := t.users[r.UID]; exists {
			return fmt.Errorf("%w: uid %s", importerrors.ErrDuplicateKey, r.UID)
		}
		if !r.Gender.Valid() {
			return fmt.Errorf("%w: gender %q", importerrors.ErrInvalidValue, r.Gender)
		}
		t.users[r.UID] = *r
		return nil

	case *catent.Activity:
		if table != importent.TableActivities {
			break
		}
		if _, exists := t.activities[r.ActivityID]; exists {
			return fmt.Errorf("%w: activity_id %s", importerrors.ErrDuplicateKey, r.ActivityID)
		}
		t.activities[r.ActivityID] = *r
		t.activityOrder = append(t.activityOrder, r.ActivityID)
		return nil

	case *evtent.Event:
		if table != importent.TableEvents {
			break
		}
		if _, exists := t.events[r.EventID]; exists {
			return fmt.Errorf("%w: event_id %s", importerrors.ErrDuplicateKey, r.EventID)
		}
		if _, ok := t.activities[r.ActivityID]; !ok {
			return fmt.Errorf("%w: activity_id %s", importerrors.ErrForeignKey, r.ActivityID)
		}
		if _, ok := t.users[r.InitiatedBy]; !ok {
			return fmt.Errorf("%w: initiated_by %s", importerrors.ErrForeignKey, r.InitiatedBy)
		}
		if r.MinAge > r.MaxAge {
			return fmt.Errorf("%w: min_age %d > max_age %d", importerrors.ErrInvalidValue, r.MinAge, r.MaxAge)
		}
		t.events[r.EventID] = *r
		t.eventOrder = append(t.eventOrder, r.EventID)
		return nil

	case *matchent.Match:
		if table != importent.TableMatches {
			break
		}
		key := r.Key()
		if _, exists := t.matches[key]; exists {
			return fmt.Errorf("%w: (%s, %s, %s)", importerrors.ErrDuplicateKey, key.EventID, key.Creator, key.Participant)
		}
		if _, ok := t.events[r.EventID]; !ok {
			return fmt.Errorf("%w: event_id %s", importerrors.ErrForeignKey, r.EventID)
		}
		if _, ok := t.users[r.Creator]; !ok {
			return fmt.Errorf("%w: creator %s", importerrors.ErrForeignKey, r.Creator)
		}
		if _, ok := t.users[r.Participant]; !ok {
			return fmt.Errorf("%w: participant %s", importerrors.ErrForeignKey, r.Participant)
		}
		if err := importent.CheckMatch(r, t.events[r.EventID].InitiatedBy); err != nil {
			return err
		}
		if r.ChatID != nil {
			if _, taken := t.chatIndex[*r.ChatID]; taken {
				return fmt.Errorf("%w: chat_id %s", importerrors.ErrDuplicateKey, *r.ChatID)
			}
			t.chatIndex[*r.ChatID] = key
		}
		t.matches[key] = *copyMatch(*r)
		t.matchOrder = append(t.matchOrder, key)
		return nil

	case *chatent.Message:
		if table != importent.TableChats {
			break
		}
		if _, ok := t.users[r.Sender]; !ok {
			return fmt.Errorf("%w: sender %s", importerrors.ErrForeignKey, r.Sender)
		}
		if _, ok := t.users[r.Recipient]; !ok {
			return fmt.Errorf("%w: recipient %s", importerrors.ErrForeignKey, r.Recipient)
		}
		key, ok := t.chatIndex[r.ChatID]
		if !ok {
			return fmt.Errorf("%w: chat_id %s", importerrors.ErrForeignKey, r.ChatID)
		}
		owner := t.matches[key]
		if err := importent.CheckMessage(&owner, r); err != nil {
			return err
		}
		if err := insertMessage(t, *r); err != nil {
			if errors.Is(err, errDuplicateMessage) {
				return fmt.Errorf("%w: %v", importerrors.ErrDuplicateKey, err)
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %T does not belong to table %s", importerrors.ErrInvalidValue, row, table)
}
