package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/dto"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
	"github.com/radu-bors/Clique-backend/pkg/mapfn"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	useCase deps.ChatUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(useCase deps.ChatUseCase, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("handler", "chats").Logger(),
	}
}

// Send handles POST /api/v1/chats/{chatId}/messages
func (h *ChatHandler) Send(ctx *fasthttp.RequestCtx) {
	sender, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	chatID, err := httputil.PathUUID(ctx, "chatId")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	var req dto.SendMessageRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	receipt, err := h.useCase.Append(ctx, chatID, sender, req.Recipient, req.Text)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponseWithStatus(ctx, receipt, fasthttp.StatusCreated)
}

// Access handles GET /api/v1/chats/{chatId}/access
func (h *ChatHandler) Access(ctx *fasthttp.RequestCtx) {
	user, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	chatID, err := httputil.PathUUID(ctx, "chatId")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	rights, err := h.useCase.Access(ctx, chatID, user)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, rights)
}

// Read handles GET /api/v1/chats/{chatId}/messages?since=RFC3339
func (h *ChatHandler) Read(ctx *fasthttp.RequestCtx) {
	reader, err := httputil.UserID(ctx)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	chatID, err := httputil.PathUUID(ctx, "chatId")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	since, err := httputil.QueryTime(ctx, "since")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	seq, err := h.useCase.ReadFrom(ctx, chatID, reader, since)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	messages, err := mapfn.Collect(seq)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteResponse(ctx, messages)
}
