package http

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// UserHandler handles user directory HTTP requests
type UserHandler struct {
	useCase deps.DirectoryUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(useCase deps.DirectoryUseCase, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("handler", "users").Logger(),
	}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(ctx *fasthttp.RequestCtx) {
	uid, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	var req dto.RegisterRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	birthdate, err := time.Parse(dto.BirthdateLayout, req.Birthdate)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, pkgerrors.NewFieldError("birthdate", "must be formatted as %s", dto.BirthdateLayout))
		return
	}

	id, err := h.useCase.Register(ctx, entities.Profile{
		UID:       uid,
		Name:      req.Name,
		Birthdate: birthdate,
		Gender:    req.Gender,
		Location:  req.Location,
	})
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponseWithStatus(ctx, dto.RegisterResponse{UID: id}, fasthttp.StatusCreated)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	id, err := httputil.PathUUID(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	user, err := h.useCase.Get(ctx, id)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, user)
}
