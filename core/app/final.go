package app

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/status"
	"github.com/dmitrymomot/conduit/internal/proof"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// finalHandler answers requests that left the root router unfinalized:
// 404 in normal mode, the error's status in error mode.
func (a *App) finalHandler(req *request.Request, res *response.Response) handler.Next {
	return func(sig handler.Signal) handler.Done {
		switch {
		case res.Finished():
			return proof.Seal()
		case res.HeadersSent():
			if sig.IsError() {
				a.logError(sig.Err(), req, res.StatusCode())
			}
			return res.End()
		case sig.IsError():
			return a.sendError(sig.Err(), req, res)
		default:
			return a.sendNotFound(req, res)
		}
	}
}

func (a *App) sendNotFound(req *request.Request, res *response.Response) handler.Done {
	resetHeaders(res)
	body := "Cannot " + req.Method() + " " + req.Path()
	a.logger.DebugContext(req.Context(), "no route matched",
		logger.Method(req.Method()),
		logger.Path(req.OriginalURL()),
	)
	if best, _ := req.Accepts("html", "json"); best == "json" {
		return res.Status(http.StatusNotFound).SendJSON(errorBody{Code: "not_found", Message: body})
	}
	return res.Status(http.StatusNotFound).SetType("text/plain; charset=utf-8").SendString(body)
}

func (a *App) sendError(err error, req *request.Request, res *response.Response) handler.Done {
	code, ok := handler.ErrorStatus(err)
	if !ok || code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}
	a.logError(err, req, code)

	message := http.StatusText(code)
	if a.env.IsDevelopment() || code < 500 {
		if m, ok := handler.ErrorMessage(err); ok {
			message = m
		}
	}
	name, ok := handler.ErrorName(err)
	if !ok {
		name = response.NewHTTPError(status.Code(code)).Code
	}

	resetHeaders(res)
	if best, _ := req.Accepts("html", "json"); best == "json" {
		return res.RawStatus(code).SendJSON(errorBody{Code: name, Message: message})
	}
	return res.RawStatus(code).SetType("text/plain; charset=utf-8").SendString(message)
}

func (a *App) logError(err error, req *request.Request, code int) {
	attrs := []any{
		logger.Error(err),
		logger.Method(req.Method()),
		logger.Path(req.OriginalURL()),
		logger.StatusCode(code),
	}
	var perr *handler.PanicError
	if errors.As(err, &perr) {
		attrs = append(attrs, logger.Stack(perr.Stack()))
	}
	if code >= 500 {
		a.logger.ErrorContext(req.Context(), "request failed", attrs...)
		return
	}
	a.logger.WarnContext(req.Context(), "request rejected", attrs...)
}

// resetHeaders drops headers set by middleware that gave up on the request
// and sets the hardening headers for a generated body.
func resetHeaders(res *response.Response) {
	h := res.Header()
	for k := range h {
		delete(h, k)
	}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "default-src 'none'")
}
