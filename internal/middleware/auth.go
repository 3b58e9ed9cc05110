package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/api/transport"
	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/httpcontext"
)

// Authenticator resolves a bearer token to an open session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// JWTAuth rejects requests without a valid token and an open session, and
// forwards the caller's member and session ids as request headers.
func JWTAuth(auth Authenticator, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(httpcontext.HeaderMemberID)
			ctx.Request.Header.Del(httpcontext.HeaderSessionID)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			session, err := auth.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				logger.Warn("rejected bearer token", zap.Error(err))
				unauthorized(ctx)
				return
			}

			ctx.Request.Header.Set(httpcontext.HeaderMemberID, session.MemberID)
			ctx.Request.Header.Set(httpcontext.HeaderSessionID, session.ID)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(transport.NewError(string(domain.ErrCodeUnauthorized), domain.ErrUnauthorized.Error(), nil).String())
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
