package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/oaiiae/contactbook/datastores"
)

// ctxlog is the [context.Context] key of the request logger.
type ctxlog struct{}

// from returns the request logger of ctx, or fallback outside of a request.
func (key ctxlog) from(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(key).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// loggerMiddleware puts a request logger in the context and writes an access line
// once the operation is served. The X-Request-Id header is generated when absent
// and always echoed.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()

		id := ctx.Header("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetHeader("X-Request-Id", id)
		logger := parent.With("x-request-id", id)

		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", op.OperationID)))

		logger.LogAttrs(context.Background(), slog.LevelInfo, op.Method+" "+op.Path+" "+ctx.Version().Proto,
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ref", ctx.Header("Referer")),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverMiddleware turns a panic into a 500 and logs the recovered value.
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if v := recover(); v != nil {
				key.from(ctx.Context(), fallback).LogAttrs(context.Background(), slog.LevelError, "panic occurred",
					slog.Any("recovered", v),
				)
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// errorHandler logs handler errors with the request logger.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level, attrs := errorLevel(err)
		key.from(ctx, fallback).LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

// errorLevel ranks status errors by their class. An unreadable store is a
// warning, anything else an error.
func errorLevel(err error) (slog.Level, []slog.Attr) {
	attrs := []slog.Attr{slog.Any("err", err)}

	var statusErr huma.StatusError
	switch {
	case errors.As(err, &statusErr):
		status := statusErr.GetStatus()
		attrs = append(attrs, slog.Int("status", status))
		switch {
		case status >= http.StatusInternalServerError:
			return slog.LevelError, attrs
		case status >= http.StatusBadRequest:
			return slog.LevelWarn, attrs
		default:
			return slog.LevelInfo, attrs
		}
	case datastores.IsUnreadable(err):
		return slog.LevelWarn, attrs
	default:
		return slog.LevelError, attrs
	}
}

var durationBuckets = metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // 1ms to 3s

// meterRequests counts and times operations by method, path and status.
func meterRequests(set *metrics.Set) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)

		labels := fmt.Sprintf(`{method="%s",path="%s",status="%d"}`, op.Method, op.Path, ctx.Status())
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, durationBuckets).UpdateDuration(start)
	}
}
