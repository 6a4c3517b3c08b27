package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// Readiness verifies all service dependencies are functioning.
// Answers "READY" if all checks pass. The first failing check fails the
// request with 503 Service Unavailable.
func Readiness(log *slog.Logger, checks ...func(context.Context) error) handler.Middleware {
	if log == nil {
		log = logger.Discard()
	}
	return handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
		for _, check := range checks {
			if err := check(req.Context()); err != nil {
				log.ErrorContext(req.Context(), "readiness check failed", logger.Error(err))
				return next.Fail(response.ErrServiceUnavailable.WithCause(err))
			}
		}
		return res.SetType("text/plain").SendString("READY")
	})
}
