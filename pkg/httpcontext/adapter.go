package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/homeharmony/backend/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Headers set by the auth middleware for the handlers. Client-supplied values
// are discarded before authentication.
const (
	HeaderMemberID  = "X-Member-ID"
	HeaderSessionID = "X-Session-ID"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a request-scoped context carrying the request id, the
// caller's member id and connection metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if memberID := MemberID(ctx); memberID != "" {
		stdCtx = appLogger.ContextWithMemberID(stdCtx, memberID)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// MemberID returns the member id set by the auth middleware.
func MemberID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	return strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderMemberID)))
}

// SessionID returns the session id set by the auth middleware.
func SessionID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	return strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderSessionID)))
}

// RequestID returns the caller-supplied X-Request-ID or a fresh one.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
