package router

import "log/slog"

// Option configures a Router during creation.
type Option func(*Router)

// WithLogger sets the logger used for recovered panics and protocol
// violations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMergeParams makes path parameters of the parent router visible to
// this router's middleware.
func WithMergeParams() Option {
	return func(r *Router) {
		r.mergeParams = true
	}
}
