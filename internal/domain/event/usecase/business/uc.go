package business

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain"
	caterrors "github.com/radu-bors/Clique-backend/internal/domain/catalog/errors"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
	"github.com/radu-bors/Clique-backend/internal/domain/event/consts"
	"github.com/radu-bors/Clique-backend/internal/domain/event/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/event/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	evterrors "github.com/radu-bors/Clique-backend/internal/domain/event/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/retry"
	"github.com/rs/zerolog"
)

type UseCase struct {
	repo       deps.EventRepository
	users      deps.UserReader
	activities deps.ActivityReader
	publisher  deps.Publisher
	retry      retry.Policy
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

func NewUseCase(
	repo deps.EventRepository,
	users deps.UserReader,
	activities deps.ActivityReader,
	publisher deps.Publisher,
	policy retry.Policy,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:       repo,
		users:      users,
		activities: activities,
		publisher:  publisher,
		retry:      policy,
		metrics:    metrics.DefaultMetrics,
		logger:     logger.With().Str("component", "event").Logger(),
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (u *UseCase) WithClock(now func() time.Time) *UseCase {
	u.now = now
	return u
}

func (u *UseCase) CreateEvent(ctx context.Context, initiator, activity uuid.UUID, c entities.Constraints) (uuid.UUID, error) {
	if c.MinAge < 0 || c.MinAge > c.MaxAge {
		return uuid.Nil, pkgerrors.NewFieldError("min_age", "%w (%d > %d)", evterrors.ErrInvalidAgeRange, c.MinAge, c.MaxAge)
	}

	prefs, err := entities.ParseGenderSet(strings.Join(c.PrefGenders, ","))
	if err != nil || len(prefs) == 0 {
		return uuid.Nil, pkgerrors.NewFieldError("pref_genders", "%w", evterrors.ErrInvalidGenderPref)
	}

	if !c.Location.Valid() {
		return uuid.Nil, pkgerrors.NewFieldError("location", "invalid location")
	}

	if _, err := u.users.GetByID(ctx, initiator); err != nil {
		if errors.Is(err, direrrors.ErrUserNotFound) {
			return uuid.Nil, pkgerrors.NewFieldError("initiated_by", "%w", err)
		}
		return uuid.Nil, err
	}

	if _, err := u.activities.GetByID(ctx, activity); err != nil {
		if errors.Is(err, caterrors.ErrActivityNotFound) {
			return uuid.Nil, pkgerrors.NewFieldError("activity_id", "%w", err)
		}
		return uuid.Nil, err
	}

	event := &entities.Event{
		EventID:     uuid.New(),
		ActivityID:  activity,
		InitiatedBy: initiator,
		Location:    c.Location,
		MinAge:      c.MinAge,
		MaxAge:      c.MaxAge,
		PrefGenders: prefs,
		Description: strings.TrimSpace(c.Description),
		IsOpen:      true,
		InitiatedOn: u.now().UTC(),
	}

	if err := u.repo.Create(ctx, event); err != nil {
		u.logger.Error().Err(err).
			Str("user_id", initiator.String()).
			Str("activity_id", activity.String()).
			Msg("failed to create event")
		return uuid.Nil, err
	}

	u.metrics.RecordEventCreated()
	u.publish(ctx, consts.TopicEventCreated, event.EventID, dto.EventCreated{
		EventID:     event.EventID,
		ActivityID:  event.ActivityID,
		InitiatedBy: event.InitiatedBy,
		InitiatedOn: event.InitiatedOn,
	})

	u.logger.Info().
		Str("event_id", event.EventID.String()).
		Str("user_id", initiator.String()).
		Str("pref_genders", prefs.String()).
		Msg("event created")

	return event.EventID, nil
}

// Close flips the open flag when requested by the initiator. Closing a closed event is a no-op.
func (u *UseCase) Close(ctx context.Context, eventID, requester uuid.UUID) error {
	event, err := u.Get(ctx, eventID)
	if err != nil {
		return err
	}

	if event.InitiatedBy != requester {
		return pkgerrors.NewAuthorizationErrorf("event %s: %w", eventID, evterrors.ErrNotInitiator)
	}

	return u.close(ctx, eventID, consts.ClosedByInitiator)
}

// CloseByPolicy closes the event on behalf of the matching engine.
func (u *UseCase) CloseByPolicy(ctx context.Context, eventID uuid.UUID) error {
	return u.close(ctx, eventID, consts.ClosedByPolicy)
}

func (u *UseCase) close(ctx context.Context, eventID uuid.UUID, reason string) error {
	var changed bool
	err := domain.RetryOnConflict(ctx, u.retry, func() { u.metrics.RecordConflictRetry("close_event") }, func(ctx context.Context) error {
		var err error
		changed, err = u.repo.Close(ctx, eventID)
		return err
	})
	if err != nil {
		if errors.Is(err, evterrors.ErrEventNotFound) {
			return pkgerrors.NewNotFoundErrorf("event %s: %w", eventID, err)
		}
		u.logger.Error().Err(err).
			Str("event_id", eventID.String()).
			Str("reason", reason).
			Msg("failed to close event")
		return err
	}

	if !changed {
		u.logger.Debug().
			Str("event_id", eventID.String()).
			Msg("event already closed")
		return nil
	}

	u.metrics.RecordEventClosed(reason)
	u.publish(ctx, consts.TopicEventClosed, eventID, dto.EventClosed{
		EventID:  eventID,
		Reason:   reason,
		ClosedAt: u.now().UTC(),
	})

	u.logger.Info().
		Str("event_id", eventID.String()).
		Str("reason", reason).
		Msg("event closed")

	return nil
}

func (u *UseCase) Get(ctx context.Context, eventID uuid.UUID) (*entities.Event, error) {
	event, err := u.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, evterrors.ErrEventNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("event %s: %w", eventID, err)
		}
		u.logger.Error().Err(err).
			Str("event_id", eventID.String()).
			Msg("failed to get event")
		return nil, err
	}
	return event, nil
}

// FindOpen resolves the requester's age and gender and returns a lazy sequence of the
// open events that admit them. Each range over the result queries storage again.
func (u *UseCase) FindOpen(ctx context.Context, criteria entities.FilterCriteria) (iter.Seq2[entities.Event, error], error) {
	if box := criteria.Within; box != nil && (box.Min.X > box.Max.X || box.Min.Y > box.Max.Y) {
		return nil, pkgerrors.NewFieldError("within", "min corner must not exceed max corner")
	}

	requester, err := u.users.GetByID(ctx, criteria.Requester)
	if err != nil {
		if errors.Is(err, direrrors.ErrUserNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("user %s: %w", criteria.Requester, err)
		}
		return nil, err
	}

	query := entities.OpenQuery{
		Requester:  requester.UID,
		Age:        requester.AgeAt(u.now()),
		Gender:     requester.Gender,
		ActivityID: criteria.ActivityID,
		Within:     criteria.Within,
	}

	return u.repo.StreamOpen(ctx, query), nil
}

// publish is best effort: the state change is already committed.
func (u *UseCase) publish(ctx context.Context, topic string, key uuid.UUID, payload any) {
	if err := u.publisher.Publish(ctx, topic, key.String(), payload); err != nil {
		u.logger.Error().Err(err).
			Str("topic", topic).
			Str("event_id", key.String()).
			Msg("failed to publish event")
	}
}
