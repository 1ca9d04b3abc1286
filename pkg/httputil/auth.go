package httputil

import (
	"bytes"
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const userIDKey = "user_id"

var bearerPrefix = []byte("Bearer ")

// LastSeenToucher records activity of an authenticated user
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, uid uuid.UUID) error
}

// Authenticator verifies HS256 bearer tokens issued by the auth service.
// The token subject is the caller's user id.
type Authenticator struct {
	secret  []byte
	issuer  string
	toucher LastSeenToucher
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

func NewAuthenticator(secret, issuer string, toucher LastSeenToucher, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		secret:  []byte(secret),
		issuer:  issuer,
		toucher: toucher,
		mapper:  pkgerrors.NewMapper(logger),
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Verify returns the user id carried by a signed token.
func (a *Authenticator) Verify(token string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, pkgerrors.NewUnauthorizedErrorf("invalid token: %v", err)
	}
	if !parsed.Valid {
		return uuid.Nil, pkgerrors.NewUnauthorizedError("invalid token")
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, pkgerrors.NewUnauthorizedErrorf("invalid token subject %q", claims.Subject)
	}
	return uid, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's id for UserID. Touching last-seen is best effort.
func (a *Authenticator) Middleware() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)
			if !bytes.HasPrefix(header, bearerPrefix) {
				WriteError(ctx, a.mapper, pkgerrors.NewUnauthorizedError("missing bearer token"))
				return
			}

			uid, err := a.Verify(string(bytes.TrimSpace(header[len(bearerPrefix):])))
			if err != nil {
				a.logger.Debug().Err(err).Msg("token rejected")
				WriteError(ctx, a.mapper, err)
				return
			}

			if a.toucher != nil {
				if err := a.toucher.TouchLastSeen(ctx, uid); err != nil {
					a.logger.Debug().Err(err).Str("user_id", uid.String()).Msg("last seen not recorded")
				}
			}

			SetUserID(ctx, uid)
			next(ctx)
		}
	}
}

// SetUserID records the authenticated caller on the request.
func SetUserID(ctx *fasthttp.RequestCtx, uid uuid.UUID) {
	ctx.SetUserValue(userIDKey, uid)
}

// UserID returns the authenticated caller set by the middleware.
func UserID(ctx *fasthttp.RequestCtx) (uuid.UUID, error) {
	uid, ok := ctx.UserValue(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, pkgerrors.NewUnauthorizedError(fmt.Sprintf("%s missing from request", userIDKey))
	}
	return uid, nil
}
