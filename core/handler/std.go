package handler

import (
	"net/http"
	"sync"

	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// StdFunc is a net/http middleware, e.g. from chi or otelhttp.
type StdFunc func(next http.Handler) http.Handler

// StdErrorFunc builds a handler that renders err.
type StdErrorFunc func(err error) http.Handler

type stdAdapter struct{}

// Apply runs the stdlib middleware. When it calls its next handler the rest
// of the pipeline runs inside that call, with the request and writer it
// passed on. When it does not, whatever it wrote finalizes the response.
//
// The next handler runs the pipeline at most once; later calls are no-ops.
// If the middleware hands next to another goroutine and returns before it
// finishes, as http.TimeoutHandler does on timeout, Apply waits for the
// pipeline to finish before it returns.
func (stdAdapter) Apply(h StdFunc, next Next, req *request.Request, res *response.Response) Done {
	var (
		mu       sync.Mutex
		started  bool
		returned bool
		done     Done
		finished = make(chan struct{})
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		if started || returned {
			mu.Unlock()
			return
		}
		started = true
		mu.Unlock()

		defer close(finished)
		req.SetRaw(r)
		restore := res.SetWriter(w)
		defer restore()
		done = next.Advance()
	})

	h(inner).ServeHTTP(res.Writer(), req.Raw())

	mu.Lock()
	returned = true
	ran := started
	mu.Unlock()

	if ran {
		<-finished
		return done
	}
	return res.End()
}

func (stdAdapter) ApplyError(h StdErrorFunc, _ Next, err error, req *request.Request, res *response.Response) Done {
	h(err).ServeHTTP(res.Writer(), req.Raw())
	return res.End()
}

// Std converts net/http middleware.
var Std = Make[StdFunc, StdErrorFunc](stdAdapter{})

// FromStd is Std.From.
func FromStd(h StdFunc) Middleware { return Std.From(h) }

// FromHandler wraps an endpoint http.Handler. It always finalizes.
func FromHandler(h http.Handler) Middleware {
	return Std.From(func(http.Handler) http.Handler { return h })
}
