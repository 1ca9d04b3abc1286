package business

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain"
	"github.com/radu-bors/Clique-backend/internal/domain/access"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/consts"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	chaterrors "github.com/radu-bors/Clique-backend/internal/domain/chat/errors"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/retry"
	"github.com/rs/zerolog"
)

// Options tunes the thread store.
type Options struct {
	Retry    retry.Policy
	PageSize int
}

type UseCase struct {
	repo      deps.ChatRepository
	gate      deps.Gate
	publisher deps.Publisher
	opts      Options
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewUseCase(
	repo deps.ChatRepository,
	gate deps.Gate,
	publisher deps.Publisher,
	opts Options,
	logger zerolog.Logger,
) *UseCase {
	if opts.PageSize <= 0 {
		opts.PageSize = consts.DefaultPageSize
	}
	return &UseCase{
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		opts:      opts,
		metrics:   metrics.DefaultMetrics,
		logger:    logger.With().Str("component", "chat").Logger(),
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (u *UseCase) WithClock(now func() time.Time) *UseCase {
	u.now = now
	return u
}

// Append stores a message from sender to recipient. The channel row is locked for the
// whole transaction, so appends on one channel and blocks of it are serialized and the
// assigned timestamps strictly increase.
func (u *UseCase) Append(ctx context.Context, chatID, sender, recipient uuid.UUID, text string) (*entities.Receipt, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, pkgerrors.NewFieldError("text", "%w", chaterrors.ErrEmptyText)
	}
	if n := utf8.RuneCountInString(text); n > entities.MaxTextLength {
		return nil, pkgerrors.NewFieldError("text", "%w (%d > %d)", chaterrors.ErrTextTooLong, n, entities.MaxTextLength)
	}

	var msg entities.Message
	err := domain.RetryOnConflict(ctx, u.opts.Retry, func() { u.metrics.RecordConflictRetry("append") }, func(ctx context.Context) error {
		return u.repo.Transaction(ctx, func(tx deps.ChatTx) error {
			m, err := tx.LockChannel(chatID)
			if err != nil {
				if errors.Is(err, matcherrors.ErrMatchNotFound) {
					return pkgerrors.NewNotFoundErrorf("chat %s: %w", chatID, access.ErrChannelNotFound)
				}
				return err
			}

			if err := access.Check(m, sender, access.Write, access.Policy{}); err != nil {
				return err
			}
			if counterpart, _ := m.Counterpart(sender); counterpart != recipient {
				return pkgerrors.NewFieldError("recipient", "%w", chaterrors.ErrWrongRecipient)
			}

			last, err := tx.LastTimestamp(chatID)
			if err != nil {
				return err
			}

			msg = entities.Message{
				ChatID:    chatID,
				ChatText:  text,
				Datetime:  entities.NextTimestamp(u.now(), last),
				Sender:    sender,
				Recipient: recipient,
			}
			return tx.Insert(&msg)
		})
	})
	if err != nil {
		u.metrics.RecordChatError("append", errorType(err))
		u.logFailure(err, chatID, sender, "failed to append message")
		return nil, err
	}

	u.metrics.RecordMessage(time.Since(start).Seconds())

	if err := u.publisher.Publish(ctx, consts.TopicMessageAppended, chatID.String(), dto.MessageAppended{
		ChatID:    msg.ChatID,
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Datetime:  msg.Datetime,
	}); err != nil {
		u.logger.Error().Err(err).
			Str("chat_id", chatID.String()).
			Msg("failed to publish message")
	}

	u.logger.Debug().
		Str("chat_id", chatID.String()).
		Str("user_id", sender.String()).
		Time("datetime", msg.Datetime).
		Msg("message appended")

	return &entities.Receipt{ChatID: msg.ChatID, Datetime: msg.Datetime, Sender: msg.Sender}, nil
}

// ReadFrom returns the channel's messages at or after since in timestamp order. The
// sequence is finite and restartable: every range re-checks access and reads storage
// page by page from since again.
func (u *UseCase) ReadFrom(ctx context.Context, chatID, reader uuid.UUID, since time.Time) (iter.Seq2[entities.Message, error], error) {
	if _, err := u.gate.Authorize(ctx, chatID, reader, access.Read); err != nil {
		u.metrics.RecordChatError("read", errorType(err))
		u.logFailure(err, chatID, reader, "chat read refused")
		return nil, err
	}

	return func(yield func(entities.Message, error) bool) {
		if _, err := u.gate.Authorize(ctx, chatID, reader, access.Read); err != nil {
			yield(entities.Message{}, err)
			return
		}

		read := 0
		defer func() { u.metrics.RecordMessagesRead(read) }()

		from, inclusive := since, true
		for {
			page, err := u.repo.ListPage(ctx, chatID, from, inclusive, u.opts.PageSize)
			if err != nil {
				u.logger.Error().Err(err).
					Str("chat_id", chatID.String()).
					Msg("failed to read messages")
				yield(entities.Message{}, err)
				return
			}

			for _, msg := range page {
				read++
				if !yield(msg, nil) {
					return
				}
			}

			if len(page) < u.opts.PageSize {
				return
			}
			from, inclusive = page[len(page)-1].Datetime, false
		}
	}, nil
}

// Access reports the caller's current rights on the channel. Unknown channels and
// strangers get no rights rather than an error.
func (u *UseCase) Access(ctx context.Context, chatID, user uuid.UUID) (*dto.ChannelAccess, error) {
	canRead, err := u.gate.CanRead(ctx, chatID, user)
	if err != nil {
		return nil, err
	}
	canWrite, err := u.gate.CanWrite(ctx, chatID, user)
	if err != nil {
		return nil, err
	}
	return &dto.ChannelAccess{ChatID: chatID, CanRead: canRead, CanWrite: canWrite}, nil
}

func (u *UseCase) logFailure(err error, chatID, user uuid.UUID, msg string) {
	var (
		validationErr *pkgerrors.ValidationError
		authErr       *pkgerrors.AuthorizationError
		notFoundErr   *pkgerrors.NotFoundError
	)
	event := u.logger.Error()
	if errors.As(err, &validationErr) || errors.As(err, &authErr) || errors.As(err, &notFoundErr) {
		event = u.logger.Warn()
	}
	event.Err(err).
		Str("chat_id", chatID.String()).
		Str("user_id", user.String()).
		Msg(msg)
}

func errorType(err error) string {
	var (
		validationErr *pkgerrors.ValidationError
		authErr       *pkgerrors.AuthorizationError
		notFoundErr   *pkgerrors.NotFoundError
		conflictErr   *pkgerrors.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &authErr):
		return "forbidden"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &conflictErr):
		return "conflict"
	}
	return "internal"
}
