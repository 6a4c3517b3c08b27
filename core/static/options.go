package static

import (
	"io/fs"
	"time"

	"github.com/dmitrymomot/conduit/core/response"
)

// Dotfiles controls how files and directories starting with a dot are served.
type Dotfiles uint8

const (
	// DotfilesIgnore treats dotfiles as missing.
	DotfilesIgnore Dotfiles = iota
	// DotfilesAllow serves dotfiles like any other file.
	DotfilesAllow
	// DotfilesDeny answers dotfile requests with 403.
	DotfilesDeny
)

// HeaderFunc customizes response headers for a file about to be served.
type HeaderFunc func(res *response.Response, name string, info fs.FileInfo)

type config struct {
	dotfiles     Dotfiles
	etag         bool
	extensions   []string
	passThrough  bool
	immutable    bool
	index        []string
	lastModified bool
	maxAge       time.Duration
	redirect     bool
	setHeaders   HeaderFunc
	subPath      string

	spaIndex     string
	excludePaths []string
}

func defaultConfig() config {
	return config{
		etag:         true,
		passThrough:  true,
		index:        []string{"index.html"},
		lastModified: true,
		redirect:     true,
		spaIndex:     "index.html",
		excludePaths: []string{"/api", "/ws"},
	}
}

// Option configures static serving.
type Option func(*config)

// WithDotfiles sets the dotfile policy. Default DotfilesIgnore.
func WithDotfiles(d Dotfiles) Option {
	return func(c *config) {
		c.dotfiles = d
	}
}

// WithETag toggles weak ETags derived from size and modification time.
// Enabled by default.
func WithETag(enabled bool) Option {
	return func(c *config) {
		c.etag = enabled
	}
}

// WithExtensions sets extensions tried, in order, when a file is not found:
// WithExtensions("html", "htm") serves /about.html for /about.
func WithExtensions(exts ...string) Option {
	return func(c *config) {
		c.extensions = exts
	}
}

// WithFallthrough controls what happens on client errors. When enabled (the
// default) missing files and non-GET requests advance to the next
// middleware; otherwise they fail with the corresponding HTTP error.
func WithFallthrough(enabled bool) Option {
	return func(c *config) {
		c.passThrough = enabled
	}
}

// WithImmutable adds the immutable Cache-Control directive.
func WithImmutable(enabled bool) Option {
	return func(c *config) {
		c.immutable = enabled
	}
}

// WithIndex sets the directory index files, tried in order.
// Default "index.html".
func WithIndex(names ...string) Option {
	return func(c *config) {
		c.index = names
	}
}

// WithoutIndex disables directory index files.
func WithoutIndex() Option {
	return func(c *config) {
		c.index = nil
	}
}

// WithLastModified toggles the Last-Modified header. Enabled by default.
func WithLastModified(enabled bool) Option {
	return func(c *config) {
		c.lastModified = enabled
	}
}

// WithMaxAge sets Cache-Control max-age.
func WithMaxAge(d time.Duration) Option {
	return func(c *config) {
		c.maxAge = d
	}
}

// WithRedirect toggles the 301 redirect that adds a trailing slash to
// directory requests. Enabled by default.
func WithRedirect(enabled bool) Option {
	return func(c *config) {
		c.redirect = enabled
	}
}

// WithSetHeaders registers a hook that runs before a file is sent.
func WithSetHeaders(fn HeaderFunc) Option {
	return func(c *config) {
		c.setHeaders = fn
	}
}

// WithSubFS serves files from a subdirectory of the filesystem. The path
// uses forward slashes regardless of OS.
func WithSubFS(path string) Option {
	return func(c *config) {
		c.subPath = path
	}
}

// WithSPAIndex sets the file SPA falls back to. Default "index.html".
func WithSPAIndex(name string) Option {
	return func(c *config) {
		c.spaIndex = name
	}
}

// WithExcludePaths sets path prefixes SPA never falls back for, such as API
// routes. Default "/api" and "/ws".
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		c.excludePaths = paths
	}
}
