package handler

import "github.com/dmitrymomot/conduit/internal/proof"

// Done is the completion token. It can only be obtained from a response
// finalizer or by calling the continuation, so a function declared to return
// Done cannot silently leave a request hanging.
type Done = proof.Done

type signalKind uint8

const (
	signalAdvance signalKind = iota
	signalSkipRoute
	signalSkipRouter
	signalError
)

// Signal is what a middleware hands to its continuation.
type Signal struct {
	kind signalKind
	err  error
}

// Advance proceeds to the next middleware.
func Advance() Signal { return Signal{kind: signalAdvance} }

// SkipRoute bypasses the remaining handlers of the current route and
// continues with the router's next layer.
func SkipRoute() Signal { return Signal{kind: signalSkipRoute} }

// SkipRouter leaves the current router and continues in its parent.
func SkipRouter() Signal { return Signal{kind: signalSkipRouter} }

// Fail diverts the pipeline to the error-handling chain. A nil error is the
// same as Advance.
func Fail(err error) Signal {
	if err == nil {
		return Advance()
	}
	return Signal{kind: signalError, err: err}
}

func (s Signal) IsAdvance() bool    { return s.kind == signalAdvance }
func (s Signal) IsSkipRoute() bool  { return s.kind == signalSkipRoute }
func (s Signal) IsSkipRouter() bool { return s.kind == signalSkipRouter }
func (s Signal) IsError() bool      { return s.kind == signalError }

// Err returns the error carried by a Fail signal.
func (s Signal) Err() error { return s.err }

func (s Signal) String() string {
	switch s.kind {
	case signalSkipRoute:
		return "skip-route"
	case signalSkipRouter:
		return "skip-router"
	case signalError:
		return "error: " + s.err.Error()
	default:
		return "advance"
	}
}

// Next is the continuation handed to every middleware invocation. Calling it
// returns the Done produced further down the chain, so returning its result
// satisfies the completion contract. Call it at most once per invocation.
type Next func(Signal) Done

// Advance calls the continuation with Advance().
func (n Next) Advance() Done { return n(Advance()) }

// SkipRoute calls the continuation with SkipRoute().
func (n Next) SkipRoute() Done { return n(SkipRoute()) }

// SkipRouter calls the continuation with SkipRouter().
func (n Next) SkipRouter() Done { return n(SkipRouter()) }

// Fail calls the continuation with Fail(err).
func (n Next) Fail(err error) Done { return n(Fail(err)) }
