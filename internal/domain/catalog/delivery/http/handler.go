package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/radu-bors/Clique-backend/internal/domain/catalog/deps"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// AddActivityRequest is the body of POST /api/v1/activities
type AddActivityRequest struct {
	ActivityName string `json:"activity_name"`
}

// ActivityHandler handles activity catalog HTTP requests
type ActivityHandler struct {
	useCase deps.CatalogUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(useCase deps.CatalogUseCase, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("handler", "activities").Logger(),
	}
}

// List handles GET /api/v1/activities
func (h *ActivityHandler) List(ctx *fasthttp.RequestCtx) {
	activities, err := h.useCase.List(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, activities)
}

// Get handles GET /api/v1/activities/{id}
func (h *ActivityHandler) Get(ctx *fasthttp.RequestCtx) {
	id, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	activity, err := h.useCase.Get(ctx, id)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, activity)
}

// Add handles POST /api/v1/activities
func (h *ActivityHandler) Add(ctx *fasthttp.RequestCtx) {
	var req AddActivityRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	activity, err := h.useCase.Add(ctx, req.ActivityName)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponseWithStatus(ctx, activity, fasthttp.StatusCreated)
}
