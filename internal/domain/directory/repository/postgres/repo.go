package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.UserRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return direrrors.ErrUserAlreadyExists
		}
		return database.Classify(result.Error, direrrors.ErrDatabaseOperation)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, uid uuid.UUID) (*entities.User, error) {
	var user entities.User
	result := r.db.WithContext(ctx).Where("uid = ?", uid).Take(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, direrrors.ErrUserNotFound
		}
		return nil, database.Classify(result.Error, direrrors.ErrDatabaseOperation)
	}
	return &user, nil
}

func (r *Repository) TouchLastSeen(ctx context.Context, uid uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("uid = ?", uid).
		Update("last_online", at.UTC())

	if result.Error != nil {
		return database.Classify(result.Error, direrrors.ErrDatabaseOperation)
	}

	if result.RowsAffected == 0 {
		return direrrors.ErrUserNotFound
	}

	return nil
}
