package httputil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-secret"

type mockToucher struct {
	touchFunc func(ctx context.Context, uid uuid.UUID) error
}

func (m *mockToucher) TouchLastSeen(ctx context.Context, uid uuid.UUID) error {
	return m.touchFunc(ctx, uid)
}

func signToken(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func request(token string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	if token != "" {
		ctx.Request.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	return &ctx
}

// TestAuthenticator_Middleware tests that a valid token reaches the handler with the caller id
func TestAuthenticator_Middleware(t *testing.T) {
	uid := uuid.New()
	var touched uuid.UUID
	auth := NewAuthenticator(testSecret, "clique-auth", &mockToucher{
		touchFunc: func(ctx context.Context, id uuid.UUID) error {
			touched = id
			return nil
		},
	}, zerolog.Nop())

	token := signToken(t, jwt.RegisteredClaims{
		Subject:   uid.String(),
		Issuer:    "clique-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, testSecret)

	var seen uuid.UUID
	handler := auth.Middleware()(func(ctx *fasthttp.RequestCtx) {
		id, err := UserID(ctx)
		require.NoError(t, err)
		seen = id
	})

	ctx := request(token)
	handler(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, uid, seen)
	assert.Equal(t, uid, touched)
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth := NewAuthenticator(testSecret, "clique-auth", nil, zerolog.Nop())
	uid := uuid.New().String()

	tests := map[string]string{
		"missing token":    "",
		"garbage":          "not-a-jwt",
		"wrong secret":     signToken(t, jwt.RegisteredClaims{Subject: uid, Issuer: "clique-auth"}, "other"),
		"wrong issuer":     signToken(t, jwt.RegisteredClaims{Subject: uid, Issuer: "someone"}, testSecret),
		"expired":          signToken(t, jwt.RegisteredClaims{Subject: uid, Issuer: "clique-auth", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}, testSecret),
		"non uuid subject": signToken(t, jwt.RegisteredClaims{Subject: "alice", Issuer: "clique-auth"}, testSecret),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			called := false
			handler := auth.Middleware()(func(ctx *fasthttp.RequestCtx) { called = true })

			ctx := request(token)
			handler(ctx)

			assert.False(t, called)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

			var resp Response
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestUserID_Missing(t *testing.T) {
	_, err := UserID(&fasthttp.RequestCtx{})
	assert.Error(t, err)
}
