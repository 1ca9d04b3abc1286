package business

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	evterrors "github.com/radu-bors/Clique-backend/internal/domain/event/errors"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/consts"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/retry"
	"github.com/rs/zerolog"
)

// Options tunes the engine.
type Options struct {
	Retry retry.Policy
	// CloseEventOnMatch closes the event after its first mutual match.
	CloseEventOnMatch bool
}

// UseCase is the matching engine. Every state transition of a triple happens inside one
// repository transaction holding the triple's lock, so concurrent callers serialize on it.
type UseCase struct {
	repo      deps.MatchRepository
	events    deps.EventReader
	users     deps.UserReader
	closer    deps.EventCloser
	publisher deps.Publisher
	opts      Options
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
	newChatID func() uuid.UUID
}

func NewUseCase(
	repo deps.MatchRepository,
	events deps.EventReader,
	users deps.UserReader,
	closer deps.EventCloser,
	publisher deps.Publisher,
	opts Options,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:      repo,
		events:    events,
		users:     users,
		closer:    closer,
		publisher: publisher,
		opts:      opts,
		metrics:   metrics.DefaultMetrics,
		logger:    logger.With().Str("component", "matching").Logger(),
		now:       time.Now,
		newChatID: uuid.New,
	}
}

// WithClock replaces the time source.
func (u *UseCase) WithClock(now func() time.Time) *UseCase {
	u.now = now
	return u
}

// transition is what one committed transaction did to a triple.
type transition struct {
	match    *entities.Match
	created  bool
	promoted bool
	blocked  bool
}

func (t transition) outcome() entities.Outcome {
	return entities.OutcomeOf(t.match)
}

// ExpressInterest records the participant's interest. A missing record is created PENDING,
// or MATCHED right away when the initiator already invited the participant. Existing
// records are returned unchanged.
func (u *UseCase) ExpressInterest(ctx context.Context, eventID, participant uuid.UUID) (entities.Outcome, error) {
	start := time.Now()
	defer u.observe(consts.OpExpressInterest, start)

	event, err := u.loadEvent(ctx, eventID)
	if err != nil {
		return entities.Outcome{}, err
	}

	if participant == event.InitiatedBy {
		return entities.Outcome{}, pkgerrors.NewFieldError("participant", "%w", matcherrors.ErrSelfInterest)
	}

	user, err := u.loadParticipant(ctx, participant)
	if err != nil {
		return entities.Outcome{}, err
	}
	// Checked only when the call would create a record; existing records stay readable.
	rejectNew := u.admission(event, user)

	key := entities.Key{EventID: eventID, Creator: event.InitiatedBy, Participant: participant}

	var tr transition
	err = u.atomically(ctx, consts.OpExpressInterest, key, func(tx deps.MatchTx) error {
		tr = transition{}

		existing, err := tx.GetForUpdate(key)
		switch {
		case err == nil:
			tr.match = existing
			return nil
		case !errors.Is(err, matcherrors.ErrMatchNotFound):
			return err
		case rejectNew != nil:
			return rejectNew
		}

		m, created, err := tx.InsertOrGet(key)
		if err != nil {
			return err
		}
		tr.match, tr.created = m, created
		if !created {
			return nil
		}

		invited, err := tx.HasInvite(key)
		if err != nil || !invited {
			return err
		}
		return u.promote(tx, key, &tr)
	})
	if err != nil {
		return entities.Outcome{}, u.fail(consts.OpExpressInterest, key, err)
	}

	u.afterCommit(ctx, consts.OpExpressInterest, key, tr, uuid.Nil)
	return tr.outcome(), nil
}

// Reciprocate promotes a PENDING record on behalf of the event's creator.
func (u *UseCase) Reciprocate(ctx context.Context, eventID, participant, creator, caller uuid.UUID) (entities.Outcome, error) {
	start := time.Now()
	defer u.observe(consts.OpReciprocate, start)

	if _, err := u.authorizeCreator(ctx, eventID, creator, caller); err != nil {
		return entities.Outcome{}, err
	}

	key := entities.Key{EventID: eventID, Creator: creator, Participant: participant}

	var tr transition
	err := u.atomically(ctx, consts.OpReciprocate, key, func(tx deps.MatchTx) error {
		tr = transition{}

		m, err := tx.GetForUpdate(key)
		if err != nil {
			return err
		}
		tr.match = m
		if m.State() != entities.StatePending {
			return nil
		}
		return u.promote(tx, key, &tr)
	})
	if err != nil {
		if errors.Is(err, matcherrors.ErrMatchNotFound) {
			return entities.Outcome{}, pkgerrors.NewNotFoundErrorf("no pending interest of %s in event %s: %w", participant, eventID, err)
		}
		return entities.Outcome{}, u.fail(consts.OpReciprocate, key, err)
	}

	u.afterCommit(ctx, consts.OpReciprocate, key, tr, uuid.Nil)
	return tr.outcome(), nil
}

// Invite records the creator's interest ahead of the participant's. If the participant
// already expressed interest it behaves like Reciprocate; otherwise the outcome stays NONE
// until the participant's ExpressInterest promotes the record directly.
func (u *UseCase) Invite(ctx context.Context, eventID, participant, creator, caller uuid.UUID) (entities.Outcome, error) {
	start := time.Now()
	defer u.observe(consts.OpInvite, start)

	event, err := u.authorizeCreator(ctx, eventID, creator, caller)
	if err != nil {
		return entities.Outcome{}, err
	}

	if participant == creator {
		return entities.Outcome{}, pkgerrors.NewFieldError("participant", "%w", matcherrors.ErrSelfInterest)
	}

	if _, err := u.loadParticipant(ctx, participant); err != nil {
		return entities.Outcome{}, err
	}

	key := entities.Key{EventID: eventID, Creator: creator, Participant: participant}

	var tr transition
	err = u.atomically(ctx, consts.OpInvite, key, func(tx deps.MatchTx) error {
		tr = transition{}

		m, err := tx.GetForUpdate(key)
		switch {
		case err == nil:
			tr.match = m
			if m.State() != entities.StatePending {
				return nil
			}
			return u.promote(tx, key, &tr)
		case !errors.Is(err, matcherrors.ErrMatchNotFound):
			return err
		case !event.IsOpen:
			return pkgerrors.NewValidationErrorf("event %s: %w", eventID, matcherrors.ErrEventClosed)
		}

		return tx.AddInvite(key)
	})
	if err != nil {
		return entities.Outcome{}, u.fail(consts.OpInvite, key, err)
	}

	u.afterCommit(ctx, consts.OpInvite, key, tr, uuid.Nil)
	return tr.outcome(), nil
}

// Block moves the triple to the terminal BLOCKED state from any state, inserting the
// record when none exists. The first blocker is kept; blocking again is a no-op.
func (u *UseCase) Block(ctx context.Context, eventID, creator, participant, by uuid.UUID) (entities.Outcome, error) {
	start := time.Now()
	defer u.observe(consts.OpBlock, start)

	if by != creator && by != participant {
		return entities.Outcome{}, pkgerrors.NewAuthorizationErrorf("user %s: %w", by, matcherrors.ErrNotParty)
	}

	event, err := u.loadEvent(ctx, eventID)
	if err != nil {
		return entities.Outcome{}, err
	}
	if event.InitiatedBy != creator {
		return entities.Outcome{}, pkgerrors.NewFieldError("creator", "%w", matcherrors.ErrCreatorMismatch)
	}
	if participant == creator {
		return entities.Outcome{}, pkgerrors.NewFieldError("participant", "%w", matcherrors.ErrSelfInterest)
	}
	if _, err := u.loadParticipant(ctx, participant); err != nil {
		return entities.Outcome{}, err
	}

	key := entities.Key{EventID: eventID, Creator: creator, Participant: participant}

	var tr transition
	err = u.atomically(ctx, consts.OpBlock, key, func(tx deps.MatchTx) error {
		tr = transition{}

		m, created, err := tx.InsertOrGet(key)
		if err != nil {
			return err
		}
		tr.match, tr.created = m, created
		if m.ChatBlock != nil {
			return nil
		}

		if err := tx.Block(key, by); err != nil {
			return err
		}
		if tr.match, err = tx.GetForUpdate(key); err != nil {
			return err
		}
		tr.blocked = true
		return nil
	})
	if err != nil {
		return entities.Outcome{}, u.fail(consts.OpBlock, key, err)
	}

	u.afterCommit(ctx, consts.OpBlock, key, tr, by)
	return tr.outcome(), nil
}

// Get reports the current state of a triple; a missing record is NONE.
func (u *UseCase) Get(ctx context.Context, key entities.Key) (entities.Outcome, error) {
	m, err := u.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, matcherrors.ErrMatchNotFound) {
			return entities.OutcomeOf(nil), nil
		}
		u.logger.Error().Err(err).
			Str("event_id", key.EventID.String()).
			Msg("failed to get match")
		return entities.Outcome{}, err
	}
	return entities.OutcomeOf(m), nil
}

// ListForUser returns every record where user is creator or participant.
func (u *UseCase) ListForUser(ctx context.Context, user uuid.UUID) ([]entities.Match, error) {
	matches, err := u.repo.ListByUser(ctx, user)
	if err != nil {
		u.logger.Error().Err(err).
			Str("user_id", user.String()).
			Msg("failed to list matches")
		return nil, err
	}
	return matches, nil
}

// atomically runs fn in a transaction holding key, retrying on conflicts.
func (u *UseCase) atomically(ctx context.Context, op string, key entities.Key, fn func(tx deps.MatchTx) error) error {
	return domain.RetryOnConflict(ctx, u.opts.Retry, func() { u.metrics.RecordConflictRetry(op) }, func(ctx context.Context) error {
		return u.repo.Transaction(ctx, func(tx deps.MatchTx) error {
			if err := tx.Lock(key); err != nil {
				return err
			}
			return fn(tx)
		})
	})
}

// promote assigns a fresh channel to a PENDING record. The caller holds the row.
func (u *UseCase) promote(tx deps.MatchTx, key entities.Key, tr *transition) error {
	if err := tx.Promote(key, u.newChatID()); err != nil {
		return err
	}
	m, err := tx.GetForUpdate(key)
	if err != nil {
		return err
	}
	tr.match = m
	tr.promoted = true
	return nil
}

func (u *UseCase) afterCommit(ctx context.Context, op string, key entities.Key, tr transition, by uuid.UUID) {
	if tr.created {
		u.metrics.RecordInterest()
	}

	log := u.logger.With().
		Str("operation", op).
		Str("event_id", key.EventID.String()).
		Str("creator", key.Creator.String()).
		Str("participant", key.Participant.String()).
		Logger()

	switch {
	case tr.promoted:
		u.metrics.RecordPromotion()
		u.publish(ctx, consts.TopicMatchPromoted, key, dto.MatchPromoted{
			EventID:     key.EventID,
			Creator:     key.Creator,
			Participant: key.Participant,
			ChatID:      *tr.match.ChatID,
			MatchedAt:   u.now().UTC(),
		})
		log.Info().Str("chat_id", tr.match.ChatID.String()).Msg("mutual match")

		if u.opts.CloseEventOnMatch {
			if err := u.closer.CloseByPolicy(ctx, key.EventID); err != nil {
				log.Error().Err(err).Msg("failed to close event after match")
			}
		}

	case tr.blocked:
		u.metrics.RecordBlock()
		u.publish(ctx, consts.TopicMatchBlocked, key, dto.MatchBlocked{
			EventID:     key.EventID,
			Creator:     key.Creator,
			Participant: key.Participant,
			ChatID:      tr.match.ChatID,
			BlockedBy:   by,
			BlockedAt:   u.now().UTC(),
		})
		log.Info().Str("blocked_by", by.String()).Msg("match blocked")

	case tr.created:
		log.Info().Msg("interest recorded")

	default:
		log.Debug().Str("state", string(tr.outcome().State)).Msg("no transition")
	}
}

func (u *UseCase) publish(ctx context.Context, topic string, key entities.Key, payload any) {
	if err := u.publisher.Publish(ctx, topic, key.EventID.String(), payload); err != nil {
		u.logger.Error().Err(err).
			Str("topic", topic).
			Str("event_id", key.EventID.String()).
			Msg("failed to publish match event")
	}
}

func (u *UseCase) fail(op string, key entities.Key, err error) error {
	var (
		validationErr *pkgerrors.ValidationError
		conflictErr   *pkgerrors.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		u.metrics.RecordMatchingError(op, "validation")
		return err
	case errors.As(err, &conflictErr):
		u.metrics.RecordMatchingError(op, "conflict")
	default:
		u.metrics.RecordMatchingError(op, "internal")
	}

	u.logger.Error().Err(err).
		Str("operation", op).
		Str("event_id", key.EventID.String()).
		Str("creator", key.Creator.String()).
		Str("participant", key.Participant.String()).
		Msg("matching transaction failed")
	return err
}

func (u *UseCase) observe(op string, start time.Time) {
	u.metrics.ObserveMatching(op, time.Since(start).Seconds())
}

func (u *UseCase) loadEvent(ctx context.Context, eventID uuid.UUID) (*evtent.Event, error) {
	event, err := u.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, evterrors.ErrEventNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("event %s: %w", eventID, err)
		}
		return nil, err
	}
	return event, nil
}

// authorizeCreator checks that caller acts as creator and creator initiated the event.
func (u *UseCase) authorizeCreator(ctx context.Context, eventID, creator, caller uuid.UUID) (*evtent.Event, error) {
	if caller != creator {
		return nil, pkgerrors.NewAuthorizationErrorf("user %s: %w", caller, matcherrors.ErrNotCreator)
	}

	event, err := u.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatedBy != creator {
		return nil, pkgerrors.NewAuthorizationErrorf("user %s on event %s: %w", creator, eventID, matcherrors.ErrCreatorMismatch)
	}
	return event, nil
}

// admission returns the error a new record for user would be rejected with, if any.
func (u *UseCase) admission(event *evtent.Event, user *dirent.User) error {
	if !event.IsOpen {
		return pkgerrors.NewValidationErrorf("event %s: %w", event.EventID, matcherrors.ErrEventClosed)
	}
	if !event.Admits(user.AgeAt(u.now()), user.Gender) {
		return pkgerrors.NewValidationErrorf("user %s on event %s: %w", user.UID, event.EventID, matcherrors.ErrNotEligible)
	}
	return nil
}

func (u *UseCase) loadParticipant(ctx context.Context, uid uuid.UUID) (*dirent.User, error) {
	user, err := u.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, direrrors.ErrUserNotFound) {
			return nil, pkgerrors.NewFieldError("participant", "%w", err)
		}
		return nil, err
	}
	return user, nil
}
