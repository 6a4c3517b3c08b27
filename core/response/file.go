package response

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/conduit/internal/proof"
)

// ErrPathNotAbsolute is returned by SendFile for a relative path without a root.
var ErrPathNotAbsolute = errors.New("response: path must be absolute or a root must be set")

type fileOptions struct {
	root         string
	maxAge       time.Duration
	immutable    bool
	lastModified bool
	headers      map[string]string
	allowDot     bool
}

// FileOption configures SendFile.
type FileOption func(*fileOptions)

// WithRoot resolves relative paths against dir and forbids escaping it.
func WithRoot(dir string) FileOption {
	return func(o *fileOptions) {
		o.root = dir
	}
}

// WithFileMaxAge sets Cache-Control max-age.
func WithFileMaxAge(d time.Duration) FileOption {
	return func(o *fileOptions) {
		o.maxAge = d
	}
}

// WithImmutable adds the immutable Cache-Control directive.
func WithImmutable() FileOption {
	return func(o *fileOptions) {
		o.immutable = true
	}
}

// WithoutLastModified omits the Last-Modified header.
func WithoutLastModified() FileOption {
	return func(o *fileOptions) {
		o.lastModified = false
	}
}

// WithFileHeaders sets extra response headers.
func WithFileHeaders(headers map[string]string) FileOption {
	return func(o *fileOptions) {
		o.headers = headers
	}
}

// WithDotfiles allows serving files whose path has a dot-prefixed segment.
func WithDotfiles() FileOption {
	return func(o *fileOptions) {
		o.allowDot = true
	}
}

// SendFile streams the file at path. On error nothing has been written and
// the caller should forward the error with next.Fail. Missing files, folders
// and hidden files yield an error matching ErrNotFound.
func (r *Response) SendFile(path string, opts ...FileOption) (proof.Done, error) {
	o := fileOptions{lastModified: true}
	for _, opt := range opts {
		opt(&o)
	}

	full, err := resolvePath(o.root, path)
	if err != nil {
		return proof.Done{}, err
	}
	if !o.allowDot && hasDotSegment(full, o.root) {
		return proof.Done{}, ErrNotFound.WithCause(fs.ErrNotExist)
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return proof.Done{}, ErrNotFound.WithCause(err)
		}
		return proof.Done{}, fmt.Errorf("response: open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return proof.Done{}, fmt.Errorf("response: stat file: %w", err)
	}
	if info.IsDir() {
		return proof.Done{}, ErrNotFound.WithCause(fs.ErrNotExist)
	}

	r.SetHeader("Cache-Control", cacheControl(o.maxAge, o.immutable))
	for k, v := range o.headers {
		r.SetHeader(k, v)
	}
	var modtime time.Time
	if o.lastModified {
		modtime = info.ModTime()
	}
	return r.SendContent(info.Name(), modtime, f), nil
}

func resolvePath(root, path string) (string, error) {
	if root == "" {
		if !filepath.IsAbs(path) {
			return "", ErrPathNotAbsolute
		}
		return filepath.Clean(path), nil
	}
	rel := filepath.Clean("/" + filepath.ToSlash(path))
	full := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, filepath.Clean(root)) {
		return "", ErrForbidden
	}
	return full, nil
}

func hasDotSegment(path, root string) bool {
	if root != "" {
		path = strings.TrimPrefix(path, filepath.Clean(root))
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if len(seg) > 1 && seg[0] == '.' {
			return true
		}
	}
	return false
}

func cacheControl(maxAge time.Duration, immutable bool) string {
	v := "public, max-age=" + strconv.Itoa(int(maxAge/time.Second))
	if immutable {
		v += ", immutable"
	}
	return v
}
