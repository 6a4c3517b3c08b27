package health

import (
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/status"
)

// Liveness indicates if the service process is running.
// Always answers "ALIVE" with 200 OK. No dependency checks.
func Liveness() handler.Middleware {
	return handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.SetType("text/plain").SendString("ALIVE")
	})
}

// NoContent answers 204 without a body. Ideal for high-frequency checks.
func NoContent() handler.Middleware {
	return handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.Status(status.NoContent).End()
	})
}
