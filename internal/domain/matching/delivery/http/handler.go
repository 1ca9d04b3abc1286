package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// EventLookup resolves the creator of an event
type EventLookup interface {
	Get(ctx context.Context, eventID uuid.UUID) (*evtent.Event, error)
}

// MatchHandler handles matching HTTP requests
type MatchHandler struct {
	useCase deps.MatchingUseCase
	events  EventLookup
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(useCase deps.MatchingUseCase, events EventLookup, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{
		useCase: useCase,
		events:  events,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("handler", "matches").Logger(),
	}
}

// triple is the caller and the record addressed by a participant route
type triple struct {
	caller uuid.UUID
	key    entities.Key
}

// resolve reads the caller and the event/participant path and fills in the event's creator.
func (h *MatchHandler) resolve(ctx *fasthttp.RequestCtx) (triple, bool) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return triple{}, false
	}

	eventID, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return triple{}, false
	}

	participant, err := httputil.PathUUID(ctx, "participant")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return triple{}, false
	}

	event, err := h.events.Get(ctx, eventID)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return triple{}, false
	}

	return triple{
		caller: caller,
		key:    entities.Key{EventID: eventID, Creator: event.InitiatedBy, Participant: participant},
	}, true
}

// ExpressInterest handles POST /api/v1/events/{id}/interest
func (h *MatchHandler) ExpressInterest(ctx *fasthttp.RequestCtx) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	eventID, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	outcome, err := h.useCase.ExpressInterest(ctx, eventID, caller)
	h.writeOutcome(ctx, outcome, err)
}

// Reciprocate handles POST /api/v1/events/{id}/participants/{participant}/reciprocate
func (h *MatchHandler) Reciprocate(ctx *fasthttp.RequestCtx) {
	t, ok := h.resolve(ctx)
	if !ok {
		return
	}

	outcome, err := h.useCase.Reciprocate(ctx, t.key.EventID, t.key.Participant, t.key.Creator, t.caller)
	h.writeOutcome(ctx, outcome, err)
}

// Invite handles POST /api/v1/events/{id}/participants/{participant}/invite
func (h *MatchHandler) Invite(ctx *fasthttp.RequestCtx) {
	t, ok := h.resolve(ctx)
	if !ok {
		return
	}

	outcome, err := h.useCase.Invite(ctx, t.key.EventID, t.key.Participant, t.key.Creator, t.caller)
	h.writeOutcome(ctx, outcome, err)
}

// Block handles POST /api/v1/events/{id}/participants/{participant}/block.
// Either party may call it.
func (h *MatchHandler) Block(ctx *fasthttp.RequestCtx) {
	t, ok := h.resolve(ctx)
	if !ok {
		return
	}

	outcome, err := h.useCase.Block(ctx, t.key.EventID, t.key.Creator, t.key.Participant, t.caller)
	h.writeOutcome(ctx, outcome, err)
}

// Get handles GET /api/v1/events/{id}/participants/{participant}
func (h *MatchHandler) Get(ctx *fasthttp.RequestCtx) {
	t, ok := h.resolve(ctx)
	if !ok {
		return
	}

	if t.caller != t.key.Creator && t.caller != t.key.Participant {
		httputil.WriteError(ctx, h.mapper, pkgerrors.NewAuthorizationError("only the parties may read a match"))
		return
	}

	outcome, err := h.useCase.Get(ctx, t.key)
	h.writeOutcome(ctx, outcome, err)
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(ctx *fasthttp.RequestCtx) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	matches, err := h.useCase.ListForUser(ctx, caller)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	if matches == nil {
		matches = []entities.Match{}
	}
	httputil.WriteResponse(ctx, matches)
}

func (h *MatchHandler) writeOutcome(ctx *fasthttp.RequestCtx, outcome entities.Outcome, err error) {
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}
	httputil.WriteResponse(ctx, outcome)
}
