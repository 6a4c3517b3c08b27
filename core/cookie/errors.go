package cookie

import "errors"

var (
	ErrNoSecret         = errors.New("cookie: a secret is required for signed cookies")
	ErrInvalidSignature = errors.New("cookie: signature verification failed")
	ErrInvalidFormat    = errors.New("cookie: value is not signed")
)
