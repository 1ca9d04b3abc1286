package httputil

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/valyala/fasthttp"
)

// PathUUID reads a uuid route parameter
func PathUUID(ctx *fasthttp.RequestCtx, name string) (uuid.UUID, error) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.NewFieldError(name, "must be a uuid")
	}
	return id, nil
}

// QueryUUID reads an optional uuid query parameter
func QueryUUID(ctx *fasthttp.RequestCtx, name string) (*uuid.UUID, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return nil, nil
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, pkgerrors.NewFieldError(name, "must be a uuid")
	}
	return &id, nil
}

// QueryTime reads an optional RFC 3339 query parameter
func QueryTime(ctx *fasthttp.RequestCtx, name string) (time.Time, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, pkgerrors.NewFieldError(name, "must be an RFC 3339 timestamp")
	}
	return t, nil
}

// DecodeJSON unmarshals the request body into dst
func DecodeJSON(ctx *fasthttp.RequestCtx, dst interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return pkgerrors.NewValidationErrorf("invalid request body: %v", err)
	}
	return nil
}
