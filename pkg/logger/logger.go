package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	memberIDKey  ctxKey = "member_id"
)

// Config mirrors config.LoggerConfig without importing the config package.
type Config struct {
	Level    string
	Encoding string
	Service  string
}

// New builds a zap.Logger writing to stdout.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	log := zap.New(core, zap.AddCaller())
	if cfg.Service != "" {
		log = log.With(zap.String("service", cfg.Service))
	}
	return log, nil
}

// ContextWithRequestID attaches a request ID to the provided context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithMemberID records the authenticated member on the context.
func ContextWithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// WithRequestID enriches the logger with the request and member ids stored in the context.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	log := base
	if reqID, ok := ctx.Value(requestIDKey).(string); ok && reqID != "" {
		log = log.With(zap.String("request_id", reqID))
	}
	if memberID, ok := ctx.Value(memberIDKey).(string); ok && memberID != "" {
		log = log.With(zap.String("member_id", memberID))
	}
	return log
}
