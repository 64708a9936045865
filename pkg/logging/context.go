package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// WithLogger returns ctx carrying logger. A nil logger stores Default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// WithRequestID stores the HTTP request id and tags the context logger
// with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return WithField(context.WithValue(ctx, requestIDKey, id), "request_id", id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithField derives the context logger with one more field.
func WithField(ctx context.Context, key string, value any) context.Context {
	l := addFieldToContext(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &l)
}

// WithFields derives the context logger with several fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	lc := FromContext(ctx).With()
	for k, v := range fields {
		lc = addFieldToContext(lc, k, v)
	}
	l := lc.Logger()
	return WithLogger(ctx, &l)
}

// WithFamily tags the context logger with a model family name.
func WithFamily(ctx context.Context, family string) context.Context {
	return WithField(ctx, "family", family)
}

// WithModel tags the context logger with a model identifier.
func WithModel(ctx context.Context, id string) context.Context {
	return WithField(ctx, "model_id", id)
}

// WithOperation tags the context logger with the running operation
// (register, verify, serve).
func WithOperation(ctx context.Context, op string) context.Context {
	return WithField(ctx, "operation", op)
}

// addFieldToContext picks the typed zerolog setter for value. Errors under
// "error" or "err" use the standard error field.
func addFieldToContext(c zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return c.Str(key, v)
	case int:
		return c.Int(key, v)
	case int64:
		return c.Int64(key, v)
	case float64:
		return c.Float64(key, v)
	case bool:
		return c.Bool(key, v)
	case error:
		if key == "error" || key == "err" {
			return c.Err(v)
		}
		return c.Str(key, v.Error())
	default:
		return c.Interface(key, v)
	}
}
