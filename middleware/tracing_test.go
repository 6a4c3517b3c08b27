package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/middleware"
)

func newTracedApp(t *testing.T) (*app.App, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	a := app.New()
	a.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		TracerProvider: tp,
		Propagator:     propagation.TraceContext{},
	}))
	a.Get("/span", handler.From(func(_ handler.Next, req *request.Request, res *response.Response) handler.Done {
		sc := trace.SpanFromContext(req.Context()).SpanContext()
		return res.SendString(sc.TraceID().String())
	}))
	a.Get("/fail", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.Status(http.StatusBadGateway).SendString("upstream down")
	}))
	return a, sr
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing(t *testing.T) {
	t.Parallel()

	t.Run("server span", func(t *testing.T) {
		t.Parallel()
		a, sr := newTracedApp(t)

		rec := get(a, "/span")
		spans := sr.Ended()
		require.Len(t, spans, 1)

		span := spans[0]
		assert.Equal(t, "HTTP GET", span.Name())
		assert.Equal(t, trace.SpanKindServer, span.SpanKind())
		assert.Equal(t, span.SpanContext().TraceID().String(), rec.Body.String())
		assert.Equal(t, codes.Unset, span.Status().Code)

		got := attrs(span)
		assert.Equal(t, "GET", got["http.request.method"].AsString())
		assert.Equal(t, "/span", got["url.path"].AsString())
		assert.Equal(t, int64(200), got["http.response.status_code"].AsInt64())
	})

	t.Run("continues incoming trace", func(t *testing.T) {
		t.Parallel()
		a, sr := newTracedApp(t)

		get(a, "/span", "traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
		assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
	})

	t.Run("server errors mark the span", func(t *testing.T) {
		t.Parallel()
		a, sr := newTracedApp(t)

		get(a, "/fail")
		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, int64(502), attrs(spans[0])["http.response.status_code"].AsInt64())
	})

	t.Run("not found is not an error", func(t *testing.T) {
		t.Parallel()
		a, sr := newTracedApp(t)

		get(a, "/missing")
		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status().Code)
	})
}

func TestTraceIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(middleware.TraceIDExtractor()))

	log.InfoContext(context.Background(), "untraced")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "trace_id")

	buf.Reset()
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	log.InfoContext(ctx, "traced")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["trace_id"])
}
