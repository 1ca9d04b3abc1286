package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
)

type tabler interface {
	TableName() string
}

type Loader struct {
	db *gorm.DB
}

func NewLoader(db *gorm.DB) deps.Loader {
	return &Loader{db: db}
}

// Load inserts the rows one by one inside a single transaction so a failure
// can be traced to its row. Constraint violations are reported by kind.
func (l *Loader) Load(ctx context.Context, table entities.Table, rows []any) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := newReferences(tx)
		for i, row := range rows {
			if t, ok := row.(tabler); !ok || t.TableName() != string(table) {
				return &importerrors.RowError{
					Index: i,
					Err:   fmt.Errorf("%w: %T does not belong to table %s", importerrors.ErrInvalidValue, row, table),
				}
			}

			if err := refs.check(row); err != nil {
				return &importerrors.RowError{Index: i, Err: err}
			}

			if err := tx.Create(row).Error; err != nil {
				return &importerrors.RowError{Index: i, Err: classify(err)}
			}
		}
		return nil
	})
}

// references resolves the rows a match or message depends on beyond its
// foreign keys. Lookups are cached for the transaction.
type references struct {
	tx         *gorm.DB
	initiators map[uuid.UUID]uuid.UUID
	owners     map[uuid.UUID]*matchent.Match
}

func newReferences(tx *gorm.DB) *references {
	return &references{
		tx:         tx,
		initiators: make(map[uuid.UUID]uuid.UUID),
		owners:     make(map[uuid.UUID]*matchent.Match),
	}
}

func (r *references) check(row any) error {
	switch v := row.(type) {
	case *matchent.Match:
		initiator, err := r.initiator(v.EventID)
		if err != nil {
			return err
		}
		return entities.CheckMatch(v, initiator)
	case *chatent.Message:
		owner, err := r.owner(v.ChatID)
		if err != nil {
			return err
		}
		return entities.CheckMessage(owner, v)
	}
	return nil
}

func (r *references) initiator(eventID uuid.UUID) (uuid.UUID, error) {
	if id, ok := r.initiators[eventID]; ok {
		return id, nil
	}

	var event evtent.Event
	err := r.tx.Select("initiated_by").Where("event_id = ?", eventID).Take(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: event_id %s", importerrors.ErrForeignKey, eventID)
		}
		return uuid.Nil, classify(err)
	}

	r.initiators[eventID] = event.InitiatedBy
	return event.InitiatedBy, nil
}

func (r *references) owner(chatID uuid.UUID) (*matchent.Match, error) {
	if m, ok := r.owners[chatID]; ok {
		return m, nil
	}

	var m matchent.Match
	err := r.tx.Where("chat_id = ?", chatID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chat_id %s", importerrors.ErrForeignKey, chatID)
		}
		return nil, classify(err)
	}

	r.owners[chatID] = &m
	return &m, nil
}

func classify(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", importerrors.ErrDuplicateKey, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", importerrors.ErrForeignKey, err)
	case database.IsCheckViolation(err):
		return fmt.Errorf("%w: %v", importerrors.ErrInvalidValue, err)
	}
	return database.Classify(err, importerrors.ErrDatabaseOperation)
}
