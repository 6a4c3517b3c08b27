// Package handler defines the continuation protocol and the opaque
// Middleware value every handler shape is converted into.
//
// # Completion
//
// A middleware returns Done. The only ways to obtain one are a response
// finalizer or the continuation, so a handler that neither answers nor
// advances does not compile:
//
//	ping := handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
//		return res.SendString("pong")
//	})
//
// # Continuation
//
// Next accepts a Signal: Advance, SkipRoute, SkipRouter or Fail(err).
// Helper methods read naturally in handlers:
//
//	if !authorized(req) {
//		return next.Fail(response.ErrUnauthorized)
//	}
//	return next.Advance()
//
// Fail switches the pipeline into error mode: normal middleware are skipped
// and the next error handler receives the exact error value.
//
// # Shapes and adapters
//
// An Adapter knows how to invoke one raw handler shape; Make turns it into a
// Module exposing From and FromError. Three modules ship with the package:
//
//	handler.Sync   // Func, ErrorFunc
//	handler.Async  // AsyncFunc, AsyncErrorFunc returning *async.Future[Done]
//	handler.Std    // func(http.Handler) http.Handler, func(error) http.Handler
//
// The async adapter waits for the future to settle; a rejected future
// becomes next.Fail(err). The request context is only observed by the
// handler itself, e.g. by passing it to async.Go as below. Adapters do not recover panics;
// the router does.
//
//	load := handler.FromAsync(func(next handler.Next, req *request.Request, res *response.Response) *async.Future[handler.Done] {
//		return async.Go(req.Context(), func(ctx context.Context) (handler.Done, error) {
//			user, err := repo.Get(ctx, id)
//			if err != nil {
//				return handler.Done{}, err
//			}
//			return res.SendJSON(user), nil
//		})
//	})
package handler
