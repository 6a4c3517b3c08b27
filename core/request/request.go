// Package request provides the read view over an incoming HTTP request that
// middleware receive. Structural fields are returned directly; optional
// values are returned with a presence flag.
package request

import (
	"context"
	"maps"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/conduit/core/cookie"
	"github.com/dmitrymomot/conduit/internal/fresh"
)

// ResponseState is the part of the response the request needs to answer
// freshness questions.
type ResponseState interface {
	Header() http.Header
	StatusCode() int
}

// Request is the view over one in-flight *http.Request.
// It must not be retained after the request cycle ends.
type Request struct {
	raw        *http.Request
	res        ResponseState
	signer     *cookie.Signer
	trustProxy bool

	params  map[string]string
	baseURL string
	path    string
	rawPath string
	body    Body
}

// Option configures a Request.
type Option func(*Request)

// WithSigner enables SignedCookie.
func WithSigner(s *cookie.Signer) Option {
	return func(r *Request) {
		r.signer = s
	}
}

// WithTrustProxy makes Protocol, Hostname, IP and IPs honor X-Forwarded-*
// headers.
func WithTrustProxy(trust bool) Option {
	return func(r *Request) {
		r.trustProxy = trust
	}
}

// WithResponse links the response so Fresh can inspect its validators.
func WithResponse(res ResponseState) Option {
	return func(r *Request) {
		r.res = res
	}
}

// SetResponse links the response after construction.
func (r *Request) SetResponse(res ResponseState) {
	r.res = res
}

// New wraps r.
func New(r *http.Request, opts ...Option) *Request {
	req := &Request{
		raw:     r,
		path:    r.URL.Path,
		rawPath: r.URL.EscapedPath(),
	}
	if req.path == "" {
		req.path = "/"
	}
	if req.rawPath == "" {
		req.rawPath = "/"
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Raw returns the underlying request.
func (r *Request) Raw() *http.Request { return r.raw }

// SetRaw replaces the underlying request, e.g. after a stdlib middleware
// derived a new one with a richer context. Path state is kept.
func (r *Request) SetRaw(raw *http.Request) {
	if raw != nil {
		r.raw = raw
	}
}

// Context returns the request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// WithValue stores a request-scoped value in the request context.
func (r *Request) WithValue(key, value any) {
	r.raw = r.raw.WithContext(context.WithValue(r.raw.Context(), key, value))
}

// Value reads a request-scoped value.
func (r *Request) Value(key any) any { return r.raw.Context().Value(key) }

// Method returns the raw method string.
func (r *Request) Method() string { return r.raw.Method }

// HTTPMethod returns the method as a closed variant.
func (r *Request) HTTPMethod() Method { return ParseMethod(r.raw.Method) }

// Path returns the request path relative to the current mount point.
func (r *Request) Path() string { return r.path }

// EscapedPath is Path in its escaped form, as received. Routing matches on
// it so an encoded "/" stays inside one segment.
func (r *Request) EscapedPath() string { return r.rawPath }

// BaseURL returns the mount path the current router was reached through.
func (r *Request) BaseURL() string { return r.baseURL }

// OriginalURL returns the request URI as received, including the query.
func (r *Request) OriginalURL() string {
	if r.raw.RequestURI != "" {
		return r.raw.RequestURI
	}
	return r.raw.URL.RequestURI()
}

// Proto returns the scheme, "http" or "https".
func (r *Request) Proto() string {
	if r.trustProxy {
		if v := firstValue(r.raw.Header.Get("X-Forwarded-Proto")); v != "" {
			return strings.ToLower(v)
		}
	}
	if r.raw.TLS != nil {
		return "https"
	}
	return "http"
}

// Protocol returns the scheme as a closed variant.
func (r *Request) Protocol() Protocol { return ParseProtocol(r.Proto()) }

// Secure reports whether the request arrived over HTTPS.
func (r *Request) Secure() bool { return r.Proto() == "https" }

// Hostname returns the host without port.
func (r *Request) Hostname() string {
	host := r.raw.Host
	if r.trustProxy {
		if v := firstValue(r.raw.Header.Get("X-Forwarded-Host")); v != "" {
			host = v
		}
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// IP returns the client address. Behind a trusted proxy it is the left-most
// X-Forwarded-For entry.
func (r *Request) IP() string {
	if ips := r.IPs(); len(ips) > 0 {
		return ips[0]
	}
	if h, _, err := net.SplitHostPort(r.raw.RemoteAddr); err == nil {
		return h
	}
	return r.raw.RemoteAddr
}

// IPs returns the X-Forwarded-For chain when proxies are trusted, otherwise
// an empty slice.
func (r *Request) IPs() []string {
	if !r.trustProxy {
		return []string{}
	}
	var ips []string
	for _, v := range strings.Split(r.raw.Header.Get("X-Forwarded-For"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			ips = append(ips, v)
		}
	}
	if ips == nil {
		return []string{}
	}
	return ips
}

// Fresh reports whether the client's cached copy is still valid for the
// response being built.
func (r *Request) Fresh() bool {
	if r.res == nil {
		return false
	}
	if !fresh.Applicable(r.raw.Method, r.res.StatusCode()) {
		return false
	}
	return fresh.Check(r.raw.Header, r.res.Header())
}

// Stale is the negation of Fresh.
func (r *Request) Stale() bool { return !r.Fresh() }

// XHR reports whether the request was issued by XMLHttpRequest.
func (r *Request) XHR() bool {
	return strings.EqualFold(r.raw.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// Param returns a path parameter.
func (r *Request) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// Params returns a copy of all path parameters.
func (r *Request) Params() map[string]string {
	return maps.Clone(r.params)
}

// SetParams replaces the path parameters. Used by the router.
func (r *Request) SetParams(params map[string]string) {
	r.params = params
}

// Mount moves the view into a sub-pipeline mounted at prefix, so Path
// becomes rest and BaseURL grows by prefix. Both arguments are escaped
// paths, cut from EscapedPath. The returned func restores the previous
// state.
func (r *Request) Mount(prefix, rest string) (restore func()) {
	prevBase, prevPath, prevRaw := r.baseURL, r.path, r.rawPath
	r.baseURL += unescapePath(prefix)
	r.path = unescapePath(rest)
	r.rawPath = rest
	return func() {
		r.baseURL, r.path, r.rawPath = prevBase, prevPath, prevRaw
	}
}

func unescapePath(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

// Query returns the first value of a query parameter.
func (r *Request) Query(name string) (string, bool) {
	vs, ok := r.raw.URL.Query()[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// QueryAll returns every value of a query parameter.
func (r *Request) QueryAll(name string) []string {
	return r.raw.URL.Query()[name]
}

// Header returns the first value of a request header. "Referer" and
// "Referrer" are interchangeable.
func (r *Request) Header(name string) (string, bool) {
	if strings.EqualFold(name, "referrer") {
		name = "Referer"
	}
	vs := r.raw.Header.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Cookie returns the raw cookie value.
func (r *Request) Cookie(name string) (string, bool) {
	c, err := r.raw.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// SignedCookie returns a verified signed cookie value. It is absent when no
// secret is configured, the cookie is missing or the signature is invalid.
func (r *Request) SignedCookie(name string) (string, bool) {
	if r.signer == nil {
		return "", false
	}
	raw, ok := r.Cookie(name)
	if !ok {
		return "", false
	}
	v, err := r.signer.Unsign(raw)
	if err != nil {
		return "", false
	}
	return v, true
}

func firstValue(header string) string {
	v, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(v)
}
