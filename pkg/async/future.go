package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrTimeout   = errors.New("async: timeout waiting for future")
	ErrNoFutures = errors.New("async: no futures provided")
)

// Future is the result of an asynchronous computation.
type Future[U any] struct {
	value U
	err   error
	once  sync.Once
	done  chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

func (f *Future[U]) complete(v U, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Async runs fn with param in a new goroutine.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		return fn(ctx, param)
	})
}

// Go runs fn in a new goroutine. A context that is already cancelled
// completes the future with the context error without running fn.
// A panic inside fn rejects the future.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		var zero U
		defer func() {
			if r := recover(); r != nil {
				f.complete(zero, fmt.Errorf("async: panic: %v", r))
			}
		}()

		if err := ctx.Err(); err != nil {
			f.complete(zero, err)
			return
		}

		v, err := fn(ctx)
		f.complete(v, err)
	}()

	return f
}

// Resolved returns a future that is already complete with v.
func Resolved[U any](v U) *Future[U] {
	f := newFuture[U]()
	f.complete(v, nil)
	return f
}

// Rejected returns a future that is already complete with err.
func Rejected[U any](err error) *Future[U] {
	f := newFuture[U]()
	var zero U
	f.complete(zero, err)
	return f
}

// Await blocks until the future completes.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.value, f.err
}

// AwaitContext blocks until the future completes or ctx is done.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout blocks until the future completes or the timeout passes,
// in which case ErrTimeout is returned.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has completed, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// WaitAll waits for every future and returns their values in order.
// The first error encountered is returned.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	for i, future := range futures {
		v, err := future.Await()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// WaitAny returns the index and result of the first future to complete.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	var zero U
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	type result struct {
		index int
		value U
		err   error
	}
	ch := make(chan result, len(futures))
	for i, future := range futures {
		go func(i int, f *Future[U]) {
			v, err := f.Await()
			ch <- result{index: i, value: v, err: err}
		}(i, future)
	}

	r := <-ch
	return r.index, r.value, r.err
}
