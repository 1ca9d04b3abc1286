package business

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	caterrors "github.com/radu-bors/Clique-backend/internal/domain/catalog/errors"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/rs/zerolog"
)

type UseCase struct {
	repo   deps.ActivityRepository
	logger zerolog.Logger
}

func NewUseCase(repo deps.ActivityRepository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

func (u *UseCase) List(ctx context.Context) ([]entities.Activity, error) {
	activities, err := u.repo.List(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("failed to list activities")
		return nil, err
	}
	return activities, nil
}

func (u *UseCase) Get(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	activity, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, caterrors.ErrActivityNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("activity %s: %w", id, err)
		}
		u.logger.Error().Err(err).
			Str("activity_id", id.String()).
			Msg("failed to get activity")
		return nil, err
	}
	return activity, nil
}

// Add curates a new activity type.
func (u *UseCase) Add(ctx context.Context, name string) (*entities.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewFieldError("activity_name", "%w", caterrors.ErrInvalidActivityName)
	}

	activity := &entities.Activity{ActivityID: uuid.New(), ActivityName: name}
	if err := u.repo.Create(ctx, activity); err != nil {
		u.logger.Error().Err(err).
			Str("activity_name", name).
			Msg("failed to add activity")
		return nil, err
	}

	u.logger.Info().
		Str("activity_id", activity.ActivityID.String()).
		Str("activity_name", name).
		Msg("activity added")

	return activity, nil
}
