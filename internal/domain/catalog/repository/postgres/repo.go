package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	caterrors "github.com/radu-bors/Clique-backend/internal/domain/catalog/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.ActivityRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, activity *entities.Activity) error {
	result := r.db.WithContext(ctx).Create(activity)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return caterrors.ErrActivityAlreadyExists
		}
		return database.Classify(result.Error, caterrors.ErrDatabaseOperation)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	var activity entities.Activity
	result := r.db.WithContext(ctx).Where("activity_id = ?", id).Take(&activity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, caterrors.ErrActivityNotFound
		}
		return nil, database.Classify(result.Error, caterrors.ErrDatabaseOperation)
	}
	return &activity, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Activity, error) {
	var activities []entities.Activity
	result := r.db.WithContext(ctx).
		Order("activity_name, activity_id").
		Find(&activities)

	if result.Error != nil {
		return nil, database.Classify(result.Error, caterrors.ErrDatabaseOperation)
	}

	return activities, nil
}
