package response

import (
	"errors"
	"mime"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dmitrymomot/conduit/core/cookie"
	"github.com/dmitrymomot/conduit/core/status"
	"github.com/dmitrymomot/conduit/internal/proof"
)

// ErrAlreadySent is the panic value raised when a response is finalized twice.
var ErrAlreadySent = errors.New("response: already sent")

// RequestSource yields the current underlying request.
type RequestSource interface {
	Raw() *http.Request
}

// Response is the view over one in-flight response.
type Response struct {
	w        *writer
	out      http.ResponseWriter
	req      RequestSource
	status   int
	finished bool

	signer *cookie.Signer
	views  ViewEngine
	etag   bool
	locals map[string]any
	now    func() time.Time
}

// Option configures a Response.
type Option func(*Response)

// WithSigner enables signed cookies.
func WithSigner(s *cookie.Signer) Option {
	return func(r *Response) {
		r.signer = s
	}
}

// WithViews sets the engine used by Render.
func WithViews(v ViewEngine) Option {
	return func(r *Response) {
		r.views = v
	}
}

// WithETag toggles weak ETag generation for buffered bodies. Enabled by default.
func WithETag(enabled bool) Option {
	return func(r *Response) {
		r.etag = enabled
	}
}

// WithClock overrides the time source used for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Response) {
		r.now = now
	}
}

// New wraps w for the request held by req.
func New(w http.ResponseWriter, req RequestSource, opts ...Option) *Response {
	tw := &writer{ResponseWriter: w}
	r := &Response{
		w:    tw,
		out:  tw,
		req:  req,
		etag: true,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Writer returns the http.ResponseWriter finalizers write to. Bytes written
// through it count as sent but do not finalize the view.
func (r *Response) Writer() http.ResponseWriter { return r.out }

// SetWriter redirects output to w, which must forward to the current
// Writer. Used when a stdlib middleware wraps the writer for the rest of the
// chain. The returned func restores the previous writer.
func (r *Response) SetWriter(w http.ResponseWriter) (restore func()) {
	prev := r.out
	r.out = w
	return func() {
		r.out = prev
	}
}

// Header returns the response header map.
func (r *Response) Header() http.Header { return r.out.Header() }

// StatusCode returns the written status, or the pending one (default 200).
func (r *Response) StatusCode() int {
	if status, written := r.w.sent(); written {
		return status
	}
	if r.status != 0 {
		return r.status
	}
	return http.StatusOK
}

// Finished reports whether a finalizer ran.
func (r *Response) Finished() bool { return r.finished }

// HeadersSent reports whether the status line reached the client.
func (r *Response) HeadersSent() bool { return r.w.headersSent() }

// BytesWritten returns the number of body bytes written.
func (r *Response) BytesWritten() int64 { return r.w.bytesWritten() }

// Locals is request-scoped data merged into rendered views.
func (r *Response) Locals() map[string]any {
	if r.locals == nil {
		r.locals = make(map[string]any)
	}
	return r.locals
}

func (r *Response) mutable() bool {
	return !r.finished && !r.w.headersSent()
}

// SetHeader sets a response header.
func (r *Response) SetHeader(name, value string) *Response {
	if r.mutable() {
		r.Header().Set(name, value)
	}
	return r
}

// AppendHeader adds a value to a response header.
func (r *Response) AppendHeader(name, value string) *Response {
	if r.mutable() {
		r.Header().Add(name, value)
	}
	return r
}

// Status sets the status code.
func (r *Response) Status(code status.Code) *Response {
	return r.RawStatus(code.Int())
}

// RawStatus sets the status code from a raw integer.
func (r *Response) RawStatus(code int) *Response {
	if r.mutable() {
		r.status = code
	}
	return r
}

// Cookie sets a cookie. A signed cookie without a configured secret panics
// with cookie.ErrNoSecret.
func (r *Response) Cookie(name, value string, opts ...cookie.Option) *Response {
	if !r.mutable() {
		return r
	}
	o := cookie.Apply(opts...)
	if o.Signed {
		if r.signer == nil {
			panic(cookie.ErrNoSecret)
		}
		value = r.signer.Sign(value)
	}
	if v := cookie.Build(name, value, o, r.now()).String(); v != "" {
		r.Header().Add("Set-Cookie", v)
	}
	return r
}

// ClearCookie expires a cookie. Path and domain must match the ones it was
// set with.
func (r *Response) ClearCookie(name string, opts ...cookie.Option) *Response {
	if !r.mutable() {
		return r
	}
	if v := cookie.Clear(name, cookie.Apply(opts...)).String(); v != "" {
		r.Header().Add("Set-Cookie", v)
	}
	return r
}

// SetType sets Content-Type from a media type or a file extension such as
// "json" or ".html".
func (r *Response) SetType(t string) *Response {
	return r.SetHeader("Content-Type", contentType(t))
}

// SetLinks appends to the Link header, one entry per relation.
func (r *Response) SetLinks(links map[string]string) *Response {
	if !r.mutable() || len(links) == 0 {
		return r
	}
	rels := make([]string, 0, len(links))
	for rel := range links {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	parts := make([]string, 0, len(rels)+1)
	if existing := r.Header().Get("Link"); existing != "" {
		parts = append(parts, existing)
	}
	for _, rel := range rels {
		parts = append(parts, "<"+links[rel]+`>; rel="`+rel+`"`)
	}
	r.Header().Set("Link", strings.Join(parts, ", "))
	return r
}

// Vary adds field to the Vary header unless already present.
func (r *Response) Vary(field string) *Response {
	if !r.mutable() {
		return r
	}
	for _, v := range r.Header().Values("Vary") {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f == "*" || strings.EqualFold(f, field) {
				return r
			}
		}
	}
	r.Header().Add("Vary", field)
	return r
}

// Location sets the Location header. "back" resolves to the Referer or "/".
func (r *Response) Location(url string) *Response {
	if url == "back" {
		url = r.req.Raw().Referer()
		if url == "" {
			url = "/"
		}
	}
	return r.SetHeader("Location", url)
}

func (r *Response) begin() {
	if r.finished {
		panic(ErrAlreadySent)
	}
	r.finished = true
}

func (r *Response) done() proof.Done {
	return proof.Seal()
}

func contentType(t string) string {
	if strings.Contains(t, "/") {
		return t
	}
	if !strings.HasPrefix(t, ".") {
		t = "." + t
	}
	if ct := mime.TypeByExtension(t); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var bodylessStatuses = []int{http.StatusNoContent, http.StatusNotModified}

func bodyless(code int) bool {
	return (code >= 100 && code < 200) || slices.Contains(bodylessStatuses, code)
}
