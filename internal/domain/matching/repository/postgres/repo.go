package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const keyCondition = "event_id = ? AND creator = ? AND participant = ?"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.MatchRepository {
	return &Repository{db: db}
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx deps.MatchTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&matchTx{db: tx})
	})
	return classifyCommit(err)
}

// classifyCommit marks a conflict raised at commit time as retryable. Errors
// returned by the callback are already classified and pass through.
func classifyCommit(err error) error {
	if err == nil || errors.Is(err, domain.ErrConflict) || !database.IsConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (r *Repository) GetByKey(ctx context.Context, key entities.Key) (*entities.Match, error) {
	return take(r.db.WithContext(ctx).Where(keyCondition, key.EventID, key.Creator, key.Participant))
}

func (r *Repository) GetByChatID(ctx context.Context, chatID uuid.UUID) (*entities.Match, error) {
	return take(r.db.WithContext(ctx).Where("chat_id = ?", chatID))
}

func (r *Repository) ListByUser(ctx context.Context, user uuid.UUID) ([]entities.Match, error) {
	var matches []entities.Match
	result := r.db.WithContext(ctx).
		Where("creator = ? OR participant = ?", user, user).
		Order("event_id, creator, participant").
		Find(&matches)

	if result.Error != nil {
		return nil, database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}

	return matches, nil
}

func take(query *gorm.DB) (*entities.Match, error) {
	var m entities.Match
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, matcherrors.ErrMatchNotFound
		}
		return nil, database.Classify(err, matcherrors.ErrDatabaseOperation)
	}
	return &m, nil
}

type matchTx struct {
	db *gorm.DB
}

// Lock takes a transaction-scoped advisory lock on the key, which also covers
// keys that have no row to lock yet.
func (tx *matchTx) Lock(key entities.Key) error {
	lockKey := key.EventID.String() + "/" + key.Creator.String() + "/" + key.Participant.String()
	if err := tx.db.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", lockKey).Error; err != nil {
		return database.Classify(err, matcherrors.ErrDatabaseOperation)
	}
	return nil
}

func (tx *matchTx) InsertOrGet(key entities.Key) (*entities.Match, bool, error) {
	m := entities.Match{EventID: key.EventID, Creator: key.Creator, Participant: key.Participant}
	result := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if result.Error != nil {
		return nil, false, database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}

	stored, err := tx.GetForUpdate(key)
	if err != nil {
		return nil, false, err
	}
	return stored, result.RowsAffected == 1, nil
}

func (tx *matchTx) GetForUpdate(key entities.Key) (*entities.Match, error) {
	return take(tx.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(keyCondition, key.EventID, key.Creator, key.Participant))
}

func (tx *matchTx) Promote(key entities.Key, chatID uuid.UUID) error {
	result := tx.db.
		Model(&entities.Match{}).
		Where(keyCondition, key.EventID, key.Creator, key.Participant).
		Where(`NOT "match" AND chat_block IS NULL`).
		Updates(map[string]any{"match": true, "chat_id": chatID})

	if result.Error != nil {
		return database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("promote %v: %w: record is not pending", key, matcherrors.ErrDatabaseOperation)
	}
	return nil
}

func (tx *matchTx) Block(key entities.Key, by uuid.UUID) error {
	result := tx.db.
		Model(&entities.Match{}).
		Where(keyCondition, key.EventID, key.Creator, key.Participant).
		Where("chat_block IS NULL").
		Update("chat_block", by.String())

	if result.Error != nil {
		return database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	_, err := tx.GetForUpdate(key)
	return err
}

func (tx *matchTx) HasInvite(key entities.Key) (bool, error) {
	var count int64
	result := tx.db.
		Model(&entities.Invite{}).
		Where(keyCondition, key.EventID, key.Creator, key.Participant).
		Count(&count)

	if result.Error != nil {
		return false, database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}
	return count > 0, nil
}

func (tx *matchTx) AddInvite(key entities.Key) error {
	invite := entities.Invite{EventID: key.EventID, Creator: key.Creator, Participant: key.Participant}
	result := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&invite)
	if result.Error != nil {
		return database.Classify(result.Error, matcherrors.ErrDatabaseOperation)
	}
	return nil
}
