package response

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/dmitrymomot/conduit/core/status"
	"github.com/dmitrymomot/conduit/internal/fresh"
	"github.com/dmitrymomot/conduit/internal/proof"
)

const (
	typeHTML   = "text/html; charset=utf-8"
	typeText   = "text/plain; charset=utf-8"
	typeJSON   = "application/json; charset=utf-8"
	typeBinary = "application/octet-stream"
)

// SendString sends s. Content-Type defaults to text/html.
func (r *Response) SendString(s string) proof.Done {
	return r.send([]byte(s), typeHTML)
}

// SendBuffer sends b. Content-Type defaults to application/octet-stream.
func (r *Response) SendBuffer(b []byte) proof.Done {
	if b == nil {
		b = []byte{}
	}
	return r.send(b, typeBinary)
}

// SendJSON encodes v as JSON and sends it. An encoding failure panics; the
// router turns the panic into an error for the error chain.
func (r *Response) SendJSON(v any) proof.Done {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("response: encode json: %w", err))
	}
	return r.send(b, typeJSON)
}

// SendArray sends items as a JSON array.
func (r *Response) SendArray(items ...any) proof.Done {
	if items == nil {
		items = []any{}
	}
	return r.SendJSON(items)
}

// SendStatus sets the status and sends its reason phrase as plain text.
func (r *Response) SendStatus(code status.Code) proof.Done {
	return r.SendRawStatus(code.Int())
}

// SendRawStatus is SendStatus for a raw integer.
func (r *Response) SendRawStatus(code int) proof.Done {
	r.RawStatus(code)
	body := http.StatusText(code)
	if body == "" {
		body = strconv.Itoa(code)
	}
	r.SetHeader("Content-Type", typeText)
	return r.send([]byte(body), typeText)
}

// Redirect answers with 302 Found.
func (r *Response) Redirect(url string) proof.Done {
	return r.RedirectCode(http.StatusFound, url)
}

// RedirectCode answers with the given 3xx code. "back" redirects to the
// Referer.
func (r *Response) RedirectCode(code int, url string) proof.Done {
	r.Location(url)
	loc := r.Header().Get("Location")
	r.RawStatus(code)
	r.SetHeader("Content-Type", typeText)
	return r.send([]byte(http.StatusText(code)+". Redirecting to "+loc), typeText)
}

// End finalizes the response without a body.
func (r *Response) End() proof.Done {
	r.begin()
	if !r.w.headersSent() {
		r.out.WriteHeader(r.StatusCode())
	}
	return r.done()
}

// SendContent streams content with support for Range and conditional
// requests. A zero modtime omits Last-Modified.
func (r *Response) SendContent(name string, modtime time.Time, content io.ReadSeeker) proof.Done {
	r.begin()
	if r.w.headersSent() {
		return r.done()
	}
	req := r.req.Raw()
	if r.status != 0 && r.status != http.StatusOK {
		r.out.WriteHeader(r.status)
		if req.Method != http.MethodHead {
			_, _ = io.Copy(r.out, content)
		}
		return r.done()
	}
	http.ServeContent(r.out, req, name, modtime, content)
	return r.done()
}

func (r *Response) send(body []byte, defaultType string) proof.Done {
	r.begin()
	if r.w.headersSent() {
		_, _ = r.out.Write(body)
		return r.done()
	}

	req := r.req.Raw()
	h := r.Header()
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", defaultType)
	}

	code := r.StatusCode()
	if r.etag && len(body) > 0 && h.Get("ETag") == "" && fresh.Applicable(req.Method, code) {
		h.Set("ETag", weakETag(body))
	}
	if fresh.Applicable(req.Method, code) && fresh.Check(req.Header, h) {
		code = http.StatusNotModified
	}

	if bodyless(code) {
		h.Del("Content-Type")
		h.Del("Content-Length")
		h.Del("Transfer-Encoding")
		body = nil
	} else {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	r.out.WriteHeader(code)
	if req.Method != http.MethodHead && len(body) > 0 {
		_, _ = r.out.Write(body)
	}
	return r.done()
}

func weakETag(body []byte) string {
	return `W/"` + strconv.FormatInt(int64(len(body)), 16) + "-" + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}
