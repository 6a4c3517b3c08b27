// Package status defines the closed set of HTTP status codes a response can
// be finalized with, plus conversions to and from raw integers.
package status

import "net/http"

// Code is an HTTP status code from the standard table.
type Code int

// 1xx
const (
	Continue           Code = http.StatusContinue
	SwitchingProtocols Code = http.StatusSwitchingProtocols
	Processing         Code = http.StatusProcessing
	EarlyHints         Code = http.StatusEarlyHints
)

// 2xx
const (
	OK                   Code = http.StatusOK
	Created              Code = http.StatusCreated
	Accepted             Code = http.StatusAccepted
	NonAuthoritativeInfo Code = http.StatusNonAuthoritativeInfo
	NoContent            Code = http.StatusNoContent
	ResetContent         Code = http.StatusResetContent
	PartialContent       Code = http.StatusPartialContent
	MultiStatus          Code = http.StatusMultiStatus
	AlreadyReported      Code = http.StatusAlreadyReported
	IMUsed               Code = http.StatusIMUsed
)

// 3xx
const (
	MultipleChoices   Code = http.StatusMultipleChoices
	MovedPermanently  Code = http.StatusMovedPermanently
	Found             Code = http.StatusFound
	SeeOther          Code = http.StatusSeeOther
	NotModified       Code = http.StatusNotModified
	UseProxy          Code = http.StatusUseProxy
	TemporaryRedirect Code = http.StatusTemporaryRedirect
	PermanentRedirect Code = http.StatusPermanentRedirect
)

// 4xx
const (
	BadRequest                   Code = http.StatusBadRequest
	Unauthorized                 Code = http.StatusUnauthorized
	PaymentRequired              Code = http.StatusPaymentRequired
	Forbidden                    Code = http.StatusForbidden
	NotFound                     Code = http.StatusNotFound
	MethodNotAllowed             Code = http.StatusMethodNotAllowed
	NotAcceptable                Code = http.StatusNotAcceptable
	ProxyAuthRequired            Code = http.StatusProxyAuthRequired
	RequestTimeout               Code = http.StatusRequestTimeout
	Conflict                     Code = http.StatusConflict
	Gone                         Code = http.StatusGone
	LengthRequired               Code = http.StatusLengthRequired
	PreconditionFailed           Code = http.StatusPreconditionFailed
	RequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge
	RequestURITooLong            Code = http.StatusRequestURITooLong
	UnsupportedMediaType         Code = http.StatusUnsupportedMediaType
	RequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable
	ExpectationFailed            Code = http.StatusExpectationFailed
	Teapot                       Code = http.StatusTeapot
	MisdirectedRequest           Code = http.StatusMisdirectedRequest
	UnprocessableEntity          Code = http.StatusUnprocessableEntity
	Locked                       Code = http.StatusLocked
	FailedDependency             Code = http.StatusFailedDependency
	TooEarly                     Code = http.StatusTooEarly
	UpgradeRequired              Code = http.StatusUpgradeRequired
	PreconditionRequired         Code = http.StatusPreconditionRequired
	TooManyRequests              Code = http.StatusTooManyRequests
	RequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge
	UnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons
)

// 5xx
const (
	InternalServerError           Code = http.StatusInternalServerError
	NotImplemented                Code = http.StatusNotImplemented
	BadGateway                    Code = http.StatusBadGateway
	ServiceUnavailable            Code = http.StatusServiceUnavailable
	GatewayTimeout                Code = http.StatusGatewayTimeout
	HTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported
	VariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates
	InsufficientStorage           Code = http.StatusInsufficientStorage
	LoopDetected                  Code = http.StatusLoopDetected
	NotExtended                   Code = http.StatusNotExtended
	NetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired
)

var all = []Code{
	Continue, SwitchingProtocols, Processing, EarlyHints,
	OK, Created, Accepted, NonAuthoritativeInfo, NoContent, ResetContent,
	PartialContent, MultiStatus, AlreadyReported, IMUsed,
	MultipleChoices, MovedPermanently, Found, SeeOther, NotModified, UseProxy,
	TemporaryRedirect, PermanentRedirect,
	BadRequest, Unauthorized, PaymentRequired, Forbidden, NotFound,
	MethodNotAllowed, NotAcceptable, ProxyAuthRequired, RequestTimeout,
	Conflict, Gone, LengthRequired, PreconditionFailed, RequestEntityTooLarge,
	RequestURITooLong, UnsupportedMediaType, RequestedRangeNotSatisfiable,
	ExpectationFailed, Teapot, MisdirectedRequest, UnprocessableEntity, Locked,
	FailedDependency, TooEarly, UpgradeRequired, PreconditionRequired,
	TooManyRequests, RequestHeaderFieldsTooLarge, UnavailableForLegalReasons,
	InternalServerError, NotImplemented, BadGateway, ServiceUnavailable,
	GatewayTimeout, HTTPVersionNotSupported, VariantAlsoNegotiates,
	InsufficientStorage, LoopDetected, NotExtended, NetworkAuthenticationRequired,
}

var known = func() map[int]Code {
	m := make(map[int]Code, len(all))
	for _, c := range all {
		m[int(c)] = c
	}
	return m
}()

// All returns every code in the table in ascending order.
func All() []Code {
	out := make([]Code, len(all))
	copy(out, all)
	return out
}

// FromInt converts a raw integer into a Code.
// The boolean is false for integers outside the table.
func FromInt(n int) (Code, bool) {
	c, ok := known[n]
	return c, ok
}

// Int returns the raw status code.
func (c Code) Int() int {
	return int(c)
}

// String returns the reason phrase, e.g. "Not Found".
func (c Code) String() string {
	return http.StatusText(int(c))
}

// IsError reports whether the code is a 4xx or 5xx code.
func (c Code) IsError() bool {
	return c >= 400
}
