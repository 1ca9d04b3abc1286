package http

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/radu-bors/Clique-backend/internal/domain/event/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/event/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
	"github.com/radu-bors/Clique-backend/pkg/mapfn"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

const (
	defaultOpenLimit = 100
	maxOpenLimit     = 500
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	useCase deps.EventUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(useCase deps.EventUseCase, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("handler", "events").Logger(),
	}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(ctx *fasthttp.RequestCtx) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	var req dto.CreateEventRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	id, err := h.useCase.CreateEvent(ctx, caller, req.ActivityID, entities.Constraints{
		Location:    req.Location,
		MinAge:      req.MinAge,
		MaxAge:      req.MaxAge,
		PrefGenders: req.PrefGenders,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponseWithStatus(ctx, dto.CreateEventResponse{EventID: id}, fasthttp.StatusCreated)
}

// Get handles GET /api/v1/events/{id}
func (h *EventHandler) Get(ctx *fasthttp.RequestCtx) {
	id, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	event, err := h.useCase.Get(ctx, id)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, event)
}

// Close handles POST /api/v1/events/{id}/close
func (h *EventHandler) Close(ctx *fasthttp.RequestCtx) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	id, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	if err := h.useCase.Close(ctx, id, caller); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// FindOpen handles GET /api/v1/events/open?activity_id=&bbox=minX,minY,maxX,maxY&limit=
func (h *EventHandler) FindOpen(ctx *fasthttp.RequestCtx) {
	caller, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	activityID, err := httputil.QueryUUID(ctx, "activity_id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	within, err := parseBox(string(ctx.QueryArgs().Peek("bbox")))
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	limit, err := parseLimit(ctx.QueryArgs().Peek("limit"))
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	seq, err := h.useCase.FindOpen(ctx, entities.FilterCriteria{
		Requester:  caller,
		ActivityID: activityID,
		Within:     within,
	})
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	events, err := mapfn.CollectLimit(seq, limit)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	h.logger.Debug().
		Str("user_id", caller.String()).
		Int("count", len(events)).
		Msg("open events listed")

	httputil.WriteResponse(ctx, events)
}

// parseLimit reads the page bound; absent means defaultOpenLimit.
func parseLimit(raw []byte) (int, error) {
	if len(raw) == 0 {
		return defaultOpenLimit, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 1 || n > maxOpenLimit {
		return 0, pkgerrors.NewFieldError("limit", "must be between 1 and %d", maxOpenLimit)
	}
	return n, nil
}

// parseBox reads "minX,minY,maxX,maxY"; an empty value means no box.
func parseBox(raw string) (*point.Box, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, pkgerrors.NewFieldError("bbox", "must be minX,minY,maxX,maxY")
	}

	var coords [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, pkgerrors.NewFieldError("bbox", "coordinate %q is not a number", part)
		}
		coords[i] = v
	}

	return &point.Box{
		Min: point.Point{X: coords[0], Y: coords[1]},
		Max: point.Point{X: coords[2], Y: coords[3]},
	}, nil
}
