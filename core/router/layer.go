package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/routable"
)

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// layer is one entry of a router's stack: either a route (full-path match,
// method filter, several handlers) or a use-layer (prefix match, one
// middleware).
type layer struct {
	path    string
	matcher *chi.Mux
	route   *route
	mw      handler.Middleware
	sub     *Router
}

type route struct {
	method   string
	handlers []handler.Middleware
}

func (r *route) handles(method string) bool {
	return r.method == routable.AnyMethod ||
		r.method == method ||
		(method == http.MethodHead && r.method == http.MethodGet)
}

type match struct {
	params map[string]string
	keys   []string
	base   string
	rest   string
}

func newRouteLayer(method, path string, mws []handler.Middleware) *layer {
	mx := chi.NewRouter()
	p := chiPattern(path)
	mx.Handle(p, noop)
	if p != "/" && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, "*") {
		mx.Handle(p+"/", noop)
	}
	return &layer{
		path:    path,
		matcher: mx,
		route:   &route{method: method, handlers: mws},
	}
}

func newUseLayer(path string, mw handler.Middleware) *layer {
	mx := chi.NewRouter()
	p := strings.TrimSuffix(chiPattern(path), "/")
	if p == "" {
		mx.Handle("/", noop)
		mx.Handle("/*", noop)
	} else {
		mx.Handle(p, noop)
		mx.Handle(p+"/", noop)
		mx.Handle(p+"/*", noop)
	}
	return &layer{path: path, matcher: mx, mw: mw}
}

// match tests the escaped path against the layer. Parameter values are
// unescaped; for use-layers base is the matched prefix and rest the
// remainder, both still escaped, rest always starting with "/".
func (l *layer) match(path string) (match, bool) {
	rctx := chi.NewRouteContext()
	if !l.matcher.Match(rctx, http.MethodGet, path) {
		return match{}, false
	}

	m := match{params: make(map[string]string, len(rctx.URLParams.Keys))}
	var (
		rest    string
		hasRest bool
	)
	for i, key := range rctx.URLParams.Keys {
		value := rctx.URLParams.Values[i]
		if key == "*" && l.route == nil {
			rest, hasRest = value, true
			continue
		}
		if u, err := url.PathUnescape(value); err == nil {
			value = u
		}
		m.params[key] = value
		m.keys = append(m.keys, key)
	}

	if l.route != nil {
		return m, true
	}

	if hasRest {
		m.base = strings.TrimSuffix(path[:len(path)-len(rest)], "/")
		m.rest = "/" + rest
	} else {
		m.base = strings.TrimSuffix(path, "/")
		m.rest = "/"
	}
	return m, true
}

// chiPattern converts ":name" segments into chi's "{name}" form.
func chiPattern(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			segs[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}
