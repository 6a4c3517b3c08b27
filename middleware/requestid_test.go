package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/middleware"
)

func get(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var echoRequestID = handler.From(func(_ handler.Next, req *request.Request, res *response.Response) handler.Done {
	id, _ := middleware.GetRequestID(req)
	return res.SendString(id)
})

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()
		a := app.New()
		a.Use(middleware.RequestID())
		a.Get("/", echoRequestID)

		rec := get(a, "/", "X-Request-ID", "incoming")
		id := rec.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.NotEqual(t, "incoming", id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		t.Parallel()
		a := app.New()
		a.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true}))
		a.Get("/", echoRequestID)

		rec := get(a, "/", "X-Request-ID", "incoming")
		assert.Equal(t, "incoming", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "incoming", rec.Body.String())
	})

	t.Run("custom header and generator", func(t *testing.T) {
		t.Parallel()
		a := app.New()
		a.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			HeaderName: "X-Trace",
			Generator:  func() string { return "fixed" },
		}))
		a.Get("/", echoRequestID)

		rec := get(a, "/")
		assert.Equal(t, "fixed", rec.Header().Get("X-Trace"))
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		a := app.New()
		a.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Skip: func(req *request.Request) bool { return req.Path() == "/health" },
		}))
		a.Get("/health", echoRequestID)

		rec := get(a, "/health")
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
		assert.Empty(t, rec.Body.String())
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(middleware.RequestIDExtractor()))

	a := app.New()
	a.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req-1" },
	}))
	a.Get("/", handler.From(func(_ handler.Next, req *request.Request, res *response.Response) handler.Done {
		log.InfoContext(req.Context(), "handled")
		return res.SendString("ok")
	}))
	get(a, "/")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])

	_, ok := middleware.RequestIDFromContext(context.Background())
	assert.False(t, ok)
}
