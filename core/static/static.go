package static

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/status"
)

// Serve returns a middleware serving files below root. The request path is
// resolved relative to the mount point, so
//
//	a.UseOnPath("/assets", static.Serve("./public"))
//
// serves ./public/app.css for GET /assets/app.css.
// Panics at startup if root is not a directory.
func Serve(root string, opts ...Option) handler.Middleware {
	root = filepath.Clean(root)
	if err := validateStartup(root, true); err != nil {
		panic("static.Serve: " + err.Error())
	}
	return ServeFS(os.DirFS(root), opts...)
}

// ServeFS is Serve for any fs.FS, including embed.FS.
// Panics at startup if the filesystem or the sub-path is not accessible.
func ServeFS(fsys fs.FS, opts ...Option) handler.Middleware {
	return handler.From(newFileServer("static.ServeFS", fsys, opts).serve)
}

// File returns a handler that always sends the file at filePath.
// Panics at startup if the file does not exist or is a directory.
func File(filePath string, opts ...response.FileOption) handler.Middleware {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		panic("static.File: " + err.Error())
	}
	if err := validateStartup(abs, false); err != nil {
		panic("static.File: " + err.Error())
	}
	return handler.From(func(next handler.Next, _ *request.Request, res *response.Response) handler.Done {
		done, err := res.SendFile(abs, opts...)
		if err != nil {
			return next.Fail(err)
		}
		return done
	})
}

type fileServer struct {
	fsys fs.FS
	cfg  config
}

func newFileServer(caller string, fsys fs.FS, opts []Option) *fileServer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic(caller + ": invalid sub-path '" + cfg.subPath + "': " + err.Error())
		}
		fsys = sub
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		panic(caller + ": filesystem is not accessible: " + err.Error())
	}

	return &fileServer{fsys: fsys, cfg: cfg}
}

func (s *fileServer) serve(next handler.Next, req *request.Request, res *response.Response) handler.Done {
	if m := req.Method(); m != http.MethodGet && m != http.MethodHead {
		if s.cfg.passThrough {
			return next.Advance()
		}
		return res.SetHeader("Allow", "GET, HEAD").
			SetHeader("Content-Length", "0").
			Status(status.MethodNotAllowed).
			End()
	}

	done, err := s.resolve(req, res)
	if err == nil {
		return done
	}
	if s.cfg.passThrough {
		if code, ok := handler.ErrorStatus(err); ok && code < 500 {
			return next.Advance()
		}
	}
	return next.Fail(err)
}

func (s *fileServer) resolve(req *request.Request, res *response.Response) (handler.Done, error) {
	reqPath := req.Path()
	if strings.ContainsRune(reqPath, 0) {
		return handler.Done{}, response.ErrBadRequest
	}
	for _, seg := range strings.Split(reqPath, "/") {
		if seg == ".." {
			return handler.Done{}, response.ErrForbidden
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+reqPath), "/")
	if name == "" {
		name = "."
	}
	if hasDotSegment(name) {
		switch s.cfg.dotfiles {
		case DotfilesDeny:
			return handler.Done{}, response.ErrForbidden
		case DotfilesIgnore:
			return handler.Done{}, response.ErrNotFound
		}
	}

	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return handler.Done{}, fmt.Errorf("static: stat %s: %w", name, err)
		}
		if name != "." && !strings.HasSuffix(reqPath, "/") {
			for _, ext := range s.cfg.extensions {
				candidate := name + "." + strings.TrimPrefix(ext, ".")
				if fi, err := fs.Stat(s.fsys, candidate); err == nil && !fi.IsDir() {
					return s.send(res, candidate, fi)
				}
			}
		}
		return handler.Done{}, response.ErrNotFound.WithCause(err)
	}

	if info.IsDir() {
		return s.directory(req, res, name)
	}
	return s.send(res, name, info)
}

func (s *fileServer) directory(req *request.Request, res *response.Response, name string) (handler.Done, error) {
	u := req.Raw().URL
	if !strings.HasSuffix(u.Path, "/") {
		if !s.cfg.redirect {
			return handler.Done{}, response.ErrNotFound
		}
		loc := u.EscapedPath() + "/"
		if u.RawQuery != "" {
			loc += "?" + u.RawQuery
		}
		return res.RedirectCode(http.StatusMovedPermanently, loc), nil
	}

	for _, idx := range s.cfg.index {
		candidate := path.Join(name, idx)
		if fi, err := fs.Stat(s.fsys, candidate); err == nil && !fi.IsDir() {
			return s.send(res, candidate, fi)
		}
	}
	return handler.Done{}, response.ErrNotFound
}

func (s *fileServer) send(res *response.Response, name string, info fs.FileInfo) (handler.Done, error) {
	f, err := s.fsys.Open(name)
	if err != nil {
		return handler.Done{}, fmt.Errorf("static: open %s: %w", name, err)
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(f)
		if err != nil {
			return handler.Done{}, fmt.Errorf("static: read %s: %w", name, err)
		}
		content = bytes.NewReader(b)
	}

	if res.Header().Get("Cache-Control") == "" {
		res.SetHeader("Cache-Control", cacheControl(s.cfg.maxAge, s.cfg.immutable))
	}
	if s.cfg.etag && res.Header().Get("ETag") == "" {
		res.SetHeader("ETag", fileETag(info))
	}
	if s.cfg.setHeaders != nil {
		s.cfg.setHeaders(res, name, info)
	}

	var modtime time.Time
	if s.cfg.lastModified {
		modtime = info.ModTime()
	}
	return res.SendContent(info.Name(), modtime, content), nil
}

func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
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

func fileETag(info fs.FileInfo) string {
	return `W/"` + strconv.FormatInt(info.Size(), 16) + "-" + strconv.FormatInt(info.ModTime().UnixMilli(), 16) + `"`
}

// validateStartup checks that a file or directory exists and is accessible.
func validateStartup(p string, mustBeDir bool) error {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			if mustBeDir {
				return fmt.Errorf("directory does not exist: %s", p)
			}
			return fmt.Errorf("file does not exist: %s", p)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}
	if mustBeDir && !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", p)
	}
	if !mustBeDir && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", p)
	}
	return nil
}
