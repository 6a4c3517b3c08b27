package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/internal/proof"
	"github.com/dmitrymomot/conduit/pkg/async"
)

type pipeline struct {
	rec *httptest.ResponseRecorder
	req *request.Request
	res *response.Response

	signals []handler.Signal
}

func newPipeline(raw *http.Request) *pipeline {
	rec := httptest.NewRecorder()
	req := request.New(raw)
	res := response.New(rec, req)
	req.SetResponse(res)
	return &pipeline{rec: rec, req: req, res: res}
}

// next records the signal and finalizes so the caller gets a valid Done.
func (p *pipeline) next(sig handler.Signal) handler.Done {
	p.signals = append(p.signals, sig)
	if p.res.Finished() {
		return proof.Seal()
	}
	return p.res.SendString("downstream")
}

var errBoom = errors.New("boom")

func TestSignals(t *testing.T) {
	t.Parallel()

	assert.True(t, handler.Advance().IsAdvance())
	assert.True(t, handler.SkipRoute().IsSkipRoute())
	assert.True(t, handler.SkipRouter().IsSkipRouter())

	fail := handler.Fail(errBoom)
	assert.True(t, fail.IsError())
	assert.Same(t, errBoom, fail.Err())
	assert.Equal(t, "error: boom", fail.String())

	assert.True(t, handler.Fail(nil).IsAdvance(), "nil error advances")
}

func TestMiddlewareModes(t *testing.T) {
	t.Parallel()

	t.Run("normal middleware passes errors through", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
			return res.SendString("unreachable")
		})
		assert.False(t, mw.HandlesErrors())

		done := mw.ServeError(p.next, errBoom, p.req, p.res)
		assert.True(t, done.Valid())
		require.Len(t, p.signals, 1)
		assert.Same(t, errBoom, p.signals[0].Err())
	})

	t.Run("error middleware passes normal flow through", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromError(func(_ handler.Next, _ error, _ *request.Request, res *response.Response) handler.Done {
			return res.SendString("unreachable")
		})
		assert.True(t, mw.HandlesErrors())

		mw.Serve(p.next, p.req, p.res)
		require.Len(t, p.signals, 1)
		assert.True(t, p.signals[0].IsAdvance())
		assert.Equal(t, "downstream", p.rec.Body.String())
	})

	t.Run("zero value advances", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		var mw handler.Middleware
		mw.Serve(p.next, p.req, p.res)
		require.Len(t, p.signals, 1)
		assert.True(t, p.signals[0].IsAdvance())
	})
}

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("resolved future", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromAsync(func(_ handler.Next, _ *request.Request, res *response.Response) *async.Future[handler.Done] {
			return async.Go(context.Background(), func(context.Context) (handler.Done, error) {
				return res.SendString("async"), nil
			})
		})

		done := mw.Serve(p.next, p.req, p.res)
		assert.True(t, done.Valid())
		assert.Equal(t, "async", p.rec.Body.String())
		assert.Empty(t, p.signals)
	})

	t.Run("rejection becomes an error", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromAsync(func(handler.Next, *request.Request, *response.Response) *async.Future[handler.Done] {
			return async.Rejected[handler.Done](errBoom)
		})

		mw.Serve(p.next, p.req, p.res)
		require.Len(t, p.signals, 1)
		assert.ErrorIs(t, p.signals[0].Err(), errBoom)
	})

	t.Run("panic in future becomes an error", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromAsync(func(handler.Next, *request.Request, *response.Response) *async.Future[handler.Done] {
			return async.Go(context.Background(), func(context.Context) (handler.Done, error) {
				panic("async boom")
			})
		})

		mw.Serve(p.next, p.req, p.res)
		require.Len(t, p.signals, 1)
		assert.True(t, p.signals[0].IsError())
	})

	t.Run("cancelled request waits for the future", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

		mw := handler.FromAsync(func(_ handler.Next, _ *request.Request, res *response.Response) *async.Future[handler.Done] {
			return async.Go(context.Background(), func(context.Context) (handler.Done, error) {
				cancel()
				time.Sleep(10 * time.Millisecond)
				return res.SendString("late"), nil
			})
		})

		done := mw.Serve(p.next, p.req, p.res)
		assert.True(t, done.Valid())
		assert.Equal(t, "late", p.rec.Body.String())
		assert.Empty(t, p.signals)
	})

	t.Run("future observing the request context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

		mw := handler.FromAsync(func(_ handler.Next, req *request.Request, _ *response.Response) *async.Future[handler.Done] {
			return async.Go(req.Context(), func(ctx context.Context) (handler.Done, error) {
				cancel()
				<-ctx.Done()
				return handler.Done{}, ctx.Err()
			})
		})

		mw.Serve(p.next, p.req, p.res)
		require.Len(t, p.signals, 1)
		assert.ErrorIs(t, p.signals[0].Err(), context.Canceled)
	})

	t.Run("error handler", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromAsyncError(func(_ handler.Next, err error, _ *request.Request, res *response.Response) *async.Future[handler.Done] {
			return async.Resolved(res.Status(500).SendString("handled " + err.Error()))
		})

		mw.ServeError(p.next, errBoom, p.req, p.res)
		assert.Equal(t, "handled boom", p.rec.Body.String())
	})
}

func TestStd(t *testing.T) {
	t.Parallel()

	t.Run("wrapping middleware sees downstream output", func(t *testing.T) {
		t.Parallel()
		type ctxKey struct{}
		var (
			seenValue  any
			statusSeen int
		)
		std := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Std", "before")
				rw := &statusRecorder{ResponseWriter: w}
				next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), ctxKey{}, "v")))
				statusSeen = rw.status
			})
		}

		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromStd(std)
		done := mw.Serve(func(sig handler.Signal) handler.Done {
			seenValue = p.req.Value(ctxKey{})
			return p.res.Status(201).SendString("inner")
		}, p.req, p.res)

		assert.True(t, done.Valid())
		assert.Equal(t, "v", seenValue)
		assert.Equal(t, 201, statusSeen)
		assert.Equal(t, "before", p.rec.Header().Get("X-Std"))
		assert.Equal(t, "inner", p.rec.Body.String())
	})

	t.Run("short-circuiting middleware finalizes", func(t *testing.T) {
		t.Parallel()
		std := func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "denied", http.StatusForbidden)
			})
		}

		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		done := handler.FromStd(std).Serve(p.next, p.req, p.res)

		assert.True(t, done.Valid())
		assert.True(t, p.res.Finished())
		assert.Empty(t, p.signals)
		assert.Equal(t, http.StatusForbidden, p.rec.Code)
		assert.Equal(t, "denied\n", p.rec.Body.String())
	})

	t.Run("timeout handler waits for the abandoned pipeline", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromStd(func(next http.Handler) http.Handler {
			return http.TimeoutHandler(next, 10*time.Millisecond, "timeout")
		})

		finished := false
		done := mw.Serve(func(handler.Signal) handler.Done {
			time.Sleep(50 * time.Millisecond)
			finished = true
			return p.res.SendString("late")
		}, p.req, p.res)

		assert.True(t, done.Valid())
		assert.True(t, finished)
		assert.Equal(t, http.StatusServiceUnavailable, p.rec.Code)
		assert.Equal(t, "timeout", p.rec.Body.String())
		assert.Equal(t, http.StatusServiceUnavailable, p.res.StatusCode())
	})

	t.Run("timeout handler passes a fast pipeline through", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromStd(func(next http.Handler) http.Handler {
			return http.TimeoutHandler(next, time.Second, "timeout")
		})

		done := mw.Serve(func(handler.Signal) handler.Done {
			return p.res.Status(http.StatusCreated).SendString("fast")
		}, p.req, p.res)

		assert.True(t, done.Valid())
		assert.Equal(t, http.StatusCreated, p.rec.Code)
		assert.Equal(t, "fast", p.rec.Body.String())
	})

	t.Run("next runs the pipeline once", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.FromStd(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r)
				next.ServeHTTP(w, r)
			})
		})

		calls := 0
		mw.Serve(func(handler.Signal) handler.Done {
			calls++
			return p.res.SendString("once")
		}, p.req, p.res)

		assert.Equal(t, 1, calls)
		assert.Equal(t, "once", p.rec.Body.String())
	})

	t.Run("endpoint handler", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "endpoint")
		})

		handler.FromHandler(h).Serve(p.next, p.req, p.res)
		assert.Equal(t, "endpoint", p.rec.Body.String())
		assert.Empty(t, p.signals)
	})

	t.Run("error handler", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(httptest.NewRequest(http.MethodGet, "/", nil))
		mw := handler.Std.FromError(func(err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, err.Error(), http.StatusTeapot)
			})
		})

		mw.ServeError(p.next, errBoom, p.req, p.res)
		assert.Equal(t, http.StatusTeapot, p.rec.Code)
		assert.Equal(t, "boom\n", p.rec.Body.String())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

type named struct{ error }

func (named) Name() string { return "validation" }

type coded struct{ error }

func (coded) StatusCode() int { return http.StatusUnprocessableEntity }

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	name, ok := handler.ErrorName(fmt.Errorf("wrap: %w", named{errBoom}))
	assert.True(t, ok)
	assert.Equal(t, "validation", name)
	_, ok = handler.ErrorName(errBoom)
	assert.False(t, ok)

	code, ok := handler.ErrorStatus(fmt.Errorf("wrap: %w", coded{errBoom}))
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	_, ok = handler.ErrorStatus(errBoom)
	assert.False(t, ok)

	msg, ok := handler.ErrorMessage(errBoom)
	assert.True(t, ok)
	assert.Equal(t, "boom", msg)
	_, ok = handler.ErrorMessage(errors.New(""))
	assert.False(t, ok)
	_, ok = handler.ErrorMessage(nil)
	assert.False(t, ok)

	perr := handler.NewPanicError(errBoom)
	assert.ErrorIs(t, perr, errBoom)
	assert.Equal(t, "panic: boom", perr.Error())
	name, _ = handler.ErrorName(perr)
	assert.Equal(t, "panic", name)
}
