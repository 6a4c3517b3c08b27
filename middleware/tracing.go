package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

const tracerName = "github.com/dmitrymomot/conduit/middleware"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *request.Request) bool

	// TracerProvider creates the tracer (default: otel.GetTracerProvider())
	TracerProvider trace.TracerProvider

	// Propagator extracts the parent span from request headers
	// (default: otel.GetTextMapPropagator())
	Propagator propagation.TextMapPropagator

	// SpanName names the server span (default: "HTTP " + method)
	SpanName func(req *request.Request) string
}

// Tracing starts a server span per request using the global provider.
func Tracing() handler.Middleware {
	return TracingWithConfig(TracingConfig{})
}

// TracingWithConfig starts a server span per request. The span context is
// stored in the request context, so handlers can create child spans from
// req.Context(). Responses with 5xx codes mark the span as failed.
func TracingWithConfig(cfg TracingConfig) handler.Middleware {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	if cfg.SpanName == nil {
		cfg.SpanName = func(req *request.Request) string {
			return "HTTP " + req.Method()
		}
	}

	tracer := cfg.TracerProvider.Tracer(tracerName)

	return handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Advance()
		}

		raw := req.Raw()
		ctx := cfg.Propagator.Extract(raw.Context(), propagation.HeaderCarrier(raw.Header))
		ctx, span := tracer.Start(ctx, cfg.SpanName(req),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method()),
				attribute.String("url.path", raw.URL.Path),
				attribute.String("url.scheme", req.Proto()),
				attribute.String("server.address", req.Hostname()),
				attribute.String("client.address", req.IP()),
				attribute.String("user_agent.original", raw.UserAgent()),
			),
		)
		defer span.End()

		if id, ok := GetRequestID(req); ok {
			span.SetAttributes(attribute.String("http.request.id", id))
		}
		req.SetRaw(raw.WithContext(ctx))

		done := next.Advance()

		code := res.StatusCode()
		span.SetAttributes(
			attribute.Int("http.response.status_code", code),
			attribute.Int64("http.response.body.size", res.BytesWritten()),
		)
		if code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(code))
		}
		return done
	})
}

// TraceIDExtractor adds the active trace ID to log records written with a
// traced context. Pass it to logger.WithContextExtractors.
func TraceIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		sc := trace.SpanContextFromContext(ctx)
		if !sc.HasTraceID() {
			return slog.Attr{}, false
		}
		return logger.TraceID(sc.TraceID().String()), true
	}
}
