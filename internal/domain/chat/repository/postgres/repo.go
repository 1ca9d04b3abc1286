package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	chaterrors "github.com/radu-bors/Clique-backend/internal/domain/chat/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.ChatRepository {
	return &Repository{db: db}
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx deps.ChatTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&chatTx{db: tx})
	})
	if err == nil || errors.Is(err, domain.ErrConflict) || !database.IsConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *Repository) ListPage(ctx context.Context, chatID uuid.UUID, from time.Time, inclusive bool, limit int) ([]entities.Message, error) {
	op := ">"
	if inclusive {
		op = ">="
	}

	var messages []entities.Message
	result := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Where("datetime "+op+" ?", from.UTC()).
		Order("datetime").
		Limit(limit).
		Find(&messages)

	if result.Error != nil {
		return nil, database.Classify(result.Error, chaterrors.ErrDatabaseOperation)
	}

	for i := range messages {
		messages[i].Datetime = messages[i].Datetime.UTC()
	}
	return messages, nil
}

type chatTx struct {
	db *gorm.DB
}

func (tx *chatTx) LockChannel(chatID uuid.UUID) (*matchent.Match, error) {
	var m matchent.Match
	err := tx.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("chat_id = ?", chatID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matcherrors.ErrMatchNotFound
		}
		return nil, database.Classify(err, chaterrors.ErrDatabaseOperation)
	}
	return &m, nil
}

func (tx *chatTx) LastTimestamp(chatID uuid.UUID) (time.Time, error) {
	var last sql.NullTime
	err := tx.db.
		Model(&entities.Message{}).
		Select("MAX(datetime)").
		Where("chat_id = ?", chatID).
		Row().
		Scan(&last)
	if err != nil {
		return time.Time{}, database.Classify(err, chaterrors.ErrDatabaseOperation)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time.UTC(), nil
}

// Insert reports a taken (chat_id, datetime) as a conflict so the caller
// retries with a fresh timestamp.
func (tx *chatTx) Insert(msg *entities.Message) error {
	result := tx.db.Create(msg)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, result.Error)
		}
		return database.Classify(result.Error, chaterrors.ErrDatabaseOperation)
	}
	return nil
}
