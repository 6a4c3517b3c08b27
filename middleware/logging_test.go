package middleware_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/middleware"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	return out
}

func newLoggedApp(cfg middleware.LoggingConfig) *app.App {
	a := app.New()
	a.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req-1" },
	}))
	a.Use(middleware.LoggingWithConfig(cfg))
	a.Get("/ping", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.SendString("pong")
	}))
	a.Get("/fail", handler.From(func(next handler.Next, _ *request.Request, _ *response.Response) handler.Done {
		return next.Fail(errors.New("boom"))
	}))
	return a
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("completed request", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := newLoggedApp(middleware.LoggingConfig{Logger: logger.New(logger.WithOutput(&buf))})

		get(a, "/ping?x=1", "User-Agent", "test-agent")
		recs := records(t, &buf)
		require.Len(t, recs, 1)

		rec := recs[0]
		assert.Equal(t, "HTTP request completed", rec["msg"])
		assert.Equal(t, "INFO", rec["level"])
		assert.Equal(t, "http", rec["component"])
		assert.Equal(t, "GET", rec["method"])
		assert.Equal(t, "/ping", rec["path"])
		assert.Equal(t, "x=1", rec["query"])
		assert.Equal(t, float64(200), rec["status_code"])
		assert.Equal(t, float64(4), rec["bytes_out"])
		assert.Equal(t, "test-agent", rec["user_agent"])
		assert.Equal(t, "req-1", rec["request_id"])
	})

	t.Run("levels follow status", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := newLoggedApp(middleware.LoggingConfig{Logger: logger.New(logger.WithOutput(&buf))})

		get(a, "/missing")
		get(a, "/fail")
		recs := records(t, &buf)
		require.Len(t, recs, 2)
		assert.Equal(t, "WARN", recs[0]["level"])
		assert.Equal(t, float64(404), recs[0]["status_code"])
		assert.Equal(t, "ERROR", recs[1]["level"])
		assert.Equal(t, float64(500), recs[1]["status_code"])
	})

	t.Run("slow requests", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := app.New()
		a.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:               logger.New(logger.WithOutput(&buf)),
			SlowRequestThreshold: time.Nanosecond,
		}))
		a.Get("/", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
			time.Sleep(time.Millisecond)
			return res.SendString("ok")
		}))

		get(a, "/")
		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "WARN", recs[0]["level"])
		assert.Equal(t, true, recs[0]["slow_request"])
	})

	t.Run("request record and redacted headers", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := newLoggedApp(middleware.LoggingConfig{
			Logger:     logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug)),
			LogLevel:   slog.LevelDebug,
			LogRequest: true,
			LogHeaders: true,
		})

		get(a, "/ping", "Authorization", "Bearer secret", "X-Custom", "visible")
		recs := records(t, &buf)
		require.Len(t, recs, 2)
		assert.Equal(t, "HTTP request started", recs[0]["msg"])
		assert.Equal(t, "DEBUG", recs[1]["level"])

		headers, ok := recs[0]["request_headers"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "[REDACTED]", headers["Authorization"])
		assert.Equal(t, "visible", headers["X-Custom"])
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := newLoggedApp(middleware.LoggingConfig{
			Logger: logger.New(logger.WithOutput(&buf)),
			Skip:   func(req *request.Request) bool { return req.Path() == "/ping" },
		})

		rec := get(a, "/ping")
		assert.Equal(t, "pong", rec.Body.String())
		assert.Empty(t, buf.String())
	})
}
