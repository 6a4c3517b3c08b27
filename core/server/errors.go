package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrInvalidPort          = errors.New("server port must be between 0 and 65535")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("server listen error")
	ErrServe                = errors.New("server error")
	ErrShutdown             = errors.New("server shutdown error")
)
