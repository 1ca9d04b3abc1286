package postgres

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/event/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	evterrors "github.com/radu-bors/Clique-backend/internal/domain/event/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.EventRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, event *entities.Event) error {
	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return evterrors.ErrEventAlreadyExists
		}
		return database.Classify(result.Error, evterrors.ErrDatabaseOperation)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	var event entities.Event
	result := r.db.WithContext(ctx).Where("event_id = ?", id).Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, evterrors.ErrEventNotFound
		}
		return nil, database.Classify(result.Error, evterrors.ErrDatabaseOperation)
	}
	return &event, nil
}

func (r *Repository) Close(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Event{}).
		Where("event_id = ? AND is_open", id).
		Update("is_open", false)

	if result.Error != nil {
		return false, database.Classify(result.Error, evterrors.ErrDatabaseOperation)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// StreamOpen narrows the rows in SQL and applies q.Matches to each scanned row.
// Rows are read from an open cursor, so a consumer that stops early releases it.
func (r *Repository) StreamOpen(ctx context.Context, q entities.OpenQuery) iter.Seq2[entities.Event, error] {
	return func(yield func(entities.Event, error) bool) {
		query := r.db.WithContext(ctx).
			Model(&entities.Event{}).
			Where("is_open AND initiated_by <> ?", q.Requester).
			Where("min_age <= ? AND max_age >= ?", q.Age, q.Age).
			Where("(',' || pref_genders || ',') LIKE ?", "%,"+string(q.Gender)+",%")

		if q.ActivityID != nil {
			query = query.Where("activity_id = ?", *q.ActivityID)
		}
		if q.Within != nil {
			query = query.Where("location <@ box(point(?, ?), point(?, ?))",
				q.Within.Min.X, q.Within.Min.Y, q.Within.Max.X, q.Within.Max.Y)
		}

		rows, err := query.Order("initiated_on DESC, event_id").Rows()
		if err != nil {
			yield(entities.Event{}, database.Classify(err, evterrors.ErrDatabaseOperation))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var event entities.Event
			if err := r.db.ScanRows(rows, &event); err != nil {
				yield(entities.Event{}, database.Classify(err, evterrors.ErrDatabaseOperation))
				return
			}
			if !q.Matches(event) {
				continue
			}
			if !yield(event, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(entities.Event{}, database.Classify(err, evterrors.ErrDatabaseOperation))
		}
	}
}
