package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// LoggingConfig configures the access log middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *request.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogRequest also logs a record when the request arrives (default: false)
	LogRequest bool

	// LogHeaders enables logging of request/response headers (default: false for security)
	LogHeaders bool

	// SensitiveHeaders is a list of header names to redact (default: common auth headers)
	SensitiveHeaders []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging
	Component string
}

// Logging creates an access log middleware with default configuration.
// It logs one record per request once the rest of the pipeline has finished.
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{
		Logger: log,
	})
}

// LoggingWithConfig creates an access log middleware with custom configuration.
// Mount it first so the record covers everything registered after it.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}

	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Advance()
		}

		start := time.Now()
		raw := req.Raw()
		path := raw.URL.Path

		if cfg.LogRequest {
			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Event("request"),
				logger.Method(req.Method()),
				logger.Path(path),
				logger.ClientIP(req.IP()),
			}
			if id, ok := GetRequestID(req); ok {
				attrs = append(attrs, logger.RequestID(id))
			}
			if cfg.LogHeaders {
				attrs = append(attrs, slog.Any("request_headers", redact(raw.Header, cfg.SensitiveHeaders)))
			}
			cfg.Logger.LogAttrs(req.Context(), cfg.LogLevel, "HTTP request started", attrs...)
		}

		done := next.Advance()

		duration := time.Since(start)
		code := res.StatusCode()
		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Event("response"),
			logger.Method(req.Method()),
			logger.Path(path),
			logger.StatusCode(code),
			logger.BytesOut(res.BytesWritten()),
			logger.Duration(duration),
			logger.ClientIP(req.IP()),
		}
		if raw.ContentLength > 0 {
			attrs = append(attrs, logger.BytesIn(raw.ContentLength))
		}
		if ua := raw.UserAgent(); ua != "" {
			attrs = append(attrs, logger.UserAgent(ua))
		}
		if raw.URL.RawQuery != "" {
			attrs = append(attrs, slog.String("query", raw.URL.RawQuery))
		}
		if id, ok := GetRequestID(req); ok {
			attrs = append(attrs, logger.RequestID(id))
		}
		if cfg.LogHeaders {
			attrs = append(attrs,
				slog.Any("request_headers", redact(raw.Header, cfg.SensitiveHeaders)),
				slog.Any("response_headers", redact(res.Header(), cfg.SensitiveHeaders)),
			)
		}

		level := cfg.LogLevel
		switch {
		case code >= 500:
			level = slog.LevelError
		case code >= 400:
			level = slog.LevelWarn
		case duration > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
			attrs = append(attrs, slog.Bool("slow_request", true))
		}

		cfg.Logger.LogAttrs(req.Context(), level, "HTTP request completed", attrs...)
		return done
	})
}

func redact(h http.Header, sensitive []string) map[string]any {
	headers := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			headers[key] = "[REDACTED]"
		case len(values) == 1:
			headers[key] = values[0]
		default:
			headers[key] = values
		}
	}
	return headers
}
