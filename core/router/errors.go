package router

import "errors"

var (
	ErrNoHandlers = errors.New("router: route requires at least one middleware")
	ErrNilRouter  = errors.New("router: nil router")
)
