package static

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// SPA serves a single page application: existing files are served as with
// ServeFS, and GET requests for anything else that accept HTML get the index
// file so the client-side router can handle them. Excluded prefixes never
// fall back. Panics at startup if the index file does not exist.
func SPA(fsys fs.FS, opts ...Option) handler.Middleware {
	s := newFileServer("static.SPA", fsys, append(opts, WithFallthrough(true)))

	index := strings.TrimPrefix(s.cfg.spaIndex, "/")
	info, err := fs.Stat(s.fsys, index)
	if err != nil || info.IsDir() {
		panic("static.SPA: index file does not exist: " + index)
	}

	return handler.From(func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
		return s.serve(func(sig handler.Signal) handler.Done {
			if !sig.IsAdvance() || !s.fallback(req) {
				return next(sig)
			}
			fi, err := fs.Stat(s.fsys, index)
			if err != nil {
				return next.Fail(err)
			}
			done, err := s.send(res, index, fi)
			if err != nil {
				return next.Fail(err)
			}
			return done
		}, req, res)
	})
}

func (s *fileServer) fallback(req *request.Request) bool {
	if m := req.Method(); m != http.MethodGet && m != http.MethodHead {
		return false
	}
	p := req.Path()
	for _, exclude := range s.cfg.excludePaths {
		if p == exclude || strings.HasPrefix(p, strings.TrimSuffix(exclude, "/")+"/") {
			return false
		}
	}
	_, ok := req.Accepts("html")
	return ok
}
