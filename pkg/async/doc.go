// Package async provides generic futures for work that completes on another
// goroutine. Asynchronous middleware return a *Future[handler.Done] and the
// pipeline awaits it bound to the request context.
//
// # Usage
//
//	future := async.Async(ctx, 123, fetchUser)
//
//	// Do other work...
//
//	user, err := future.Await()
//
// Go runs a closure without a separate parameter:
//
//	future := async.Go(ctx, func(ctx context.Context) (User, error) {
//		return repo.Get(ctx, id)
//	})
//
// Resolved and Rejected build futures that are already complete, which is
// handy in tests and in handlers that can answer synchronously.
//
// # Waiting
//
//	user, err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("operation timed out")
//	}
//
//	user, err = future.AwaitContext(r.Context())
//
// WaitAll collects every result in order; WaitAny returns the first one:
//
//	users, err := async.WaitAll(futures...)
//	index, user, err := async.WaitAny(futures...)
//
// # Errors
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when WaitAny is called with no futures
//
// A panic inside the computation rejects the future instead of crashing the
// process. If the context is cancelled before the computation starts, the
// future completes with the context's error and the function is not run.
package async
