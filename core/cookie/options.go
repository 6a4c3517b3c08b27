package cookie

import (
	"net/http"
	"time"
)

// SameSite is the SameSite attribute of a cookie.
// The zero value leaves the attribute unset.
type SameSite uint8

const (
	SameSiteUnset SameSite = iota
	SameSiteLax
	SameSiteStrict
	SameSiteNone
)

func (s SameSite) http() http.SameSite {
	switch s {
	case SameSiteLax:
		return http.SameSiteLaxMode
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return 0
	}
}

// Options holds cookie attributes. Zero fields are not written, except Path
// which defaults to "/".
type Options struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Expires  time.Time
	HTTPOnly bool
	Secure   bool
	Signed   bool
	SameSite SameSite
}

// Option configures Options.
type Option func(*Options)

// WithPath sets the cookie path attribute.
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithDomain sets the cookie domain attribute.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithMaxAge sets the lifetime relative to now. It is written as both the
// Max-Age and the Expires attribute.
func WithMaxAge(d time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = d
	}
}

// WithExpires sets an absolute expiry.
func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = t
	}
}

// WithHTTPOnly hides the cookie from client-side scripts.
func WithHTTPOnly() Option {
	return func(o *Options) {
		o.HTTPOnly = true
	}
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure() Option {
	return func(o *Options) {
		o.Secure = true
	}
}

// WithSigned signs the value with the application's secret.
func WithSigned() Option {
	return func(o *Options) {
		o.Signed = true
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(s SameSite) Option {
	return func(o *Options) {
		o.SameSite = s
	}
}

// Apply builds Options from opts.
func Apply(opts ...Option) Options {
	o := Options{Path: "/"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build returns the http.Cookie for name and value. The value must already be
// signed if o.Signed is set.
func Build(name, value string, o Options, now time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		HttpOnly: o.HTTPOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite.http(),
	}
	if !o.Expires.IsZero() {
		c.Expires = o.Expires
	}
	if o.MaxAge != 0 {
		c.Expires = now.Add(o.MaxAge)
		c.MaxAge = int(o.MaxAge / time.Second)
		if c.MaxAge == 0 {
			c.MaxAge = -1
		}
	}
	return c
}

// Clear returns a cookie that expires name immediately. Path and domain must
// match the cookie being cleared.
func Clear(name string, o Options) *http.Cookie {
	c := Build(name, "", o, time.Time{})
	c.Expires = time.Unix(1, 0).UTC()
	c.MaxAge = 0
	return c
}
