package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/rs/zerolog"
)

// maxAge bounds plausible birthdates.
const maxAge = 130

type UseCase struct {
	repo   deps.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUseCase(repo deps.UserRepository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		logger: logger.With().Str("component", "directory").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (u *UseCase) WithClock(now func() time.Time) *UseCase {
	u.now = now
	return u
}

func (u *UseCase) Register(ctx context.Context, profile entities.Profile) (uuid.UUID, error) {
	user, err := u.validate(profile)
	if err != nil {
		return uuid.Nil, err
	}

	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, direrrors.ErrUserAlreadyExists) {
			return uuid.Nil, pkgerrors.NewValidationErrorf("uid %s: %w", user.UID, err)
		}
		u.logger.Error().Err(err).
			Str("user_id", user.UID.String()).
			Msg("failed to register user")
		return uuid.Nil, err
	}

	u.logger.Info().
		Str("user_id", user.UID.String()).
		Str("gender", string(user.Gender)).
		Msg("user registered")

	return user.UID, nil
}

func (u *UseCase) validate(profile entities.Profile) (*entities.User, error) {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		return nil, pkgerrors.NewFieldError("name", "%w", direrrors.ErrInvalidName)
	}

	gender, ok := entities.ParseGender(profile.Gender)
	if !ok {
		return nil, pkgerrors.NewFieldError("gender", "%w", direrrors.ErrInvalidGender)
	}

	now := u.now().UTC()
	birth := profile.Birthdate
	switch {
	case birth.IsZero(), birth.After(now), entities.AgeAt(birth, now) > maxAge:
		return nil, pkgerrors.NewFieldError("birthdate", "%w", direrrors.ErrInvalidBirthdate)
	}

	if !profile.Location.Valid() {
		return nil, pkgerrors.NewFieldError("location", "%w", direrrors.ErrInvalidLocation)
	}

	uid := profile.UID
	if uid == uuid.Nil {
		uid = uuid.New()
	}

	return &entities.User{
		UID:       uid,
		Name:      name,
		Birthdate: time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC),
		Gender:    gender,
		Location:  profile.Location,
	}, nil
}

func (u *UseCase) Get(ctx context.Context, uid uuid.UUID) (*entities.User, error) {
	user, err := u.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, direrrors.ErrUserNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("user %s: %w", uid, err)
		}
		u.logger.Error().Err(err).
			Str("user_id", uid.String()).
			Msg("failed to get user")
		return nil, err
	}
	return user, nil
}

func (u *UseCase) TouchLastSeen(ctx context.Context, uid uuid.UUID) error {
	if err := u.repo.TouchLastSeen(ctx, uid, u.now().UTC()); err != nil {
		if errors.Is(err, direrrors.ErrUserNotFound) {
			return pkgerrors.NewNotFoundErrorf("user %s: %w", uid, err)
		}
		u.logger.Error().Err(err).
			Str("user_id", uid.String()).
			Msg("failed to touch last seen")
		return err
	}
	return nil
}
