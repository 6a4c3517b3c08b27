package routable_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/routable"
)

type call struct {
	kind   string
	method string
	path   string
	count  int
}

type recorder struct {
	routable.Routable[*recorder]
	calls []call
}

func newRecorder() *recorder {
	r := &recorder{}
	r.Routable = routable.New(r)
	return r
}

func (r *recorder) Register(method, path string, mws []handler.Middleware) {
	r.calls = append(r.calls, call{kind: "route", method: method, path: path, count: len(mws)})
}

func (r *recorder) RegisterUse(path string, mws []handler.Middleware) {
	r.calls = append(r.calls, call{kind: "use", path: path, count: len(mws)})
}

func (r *recorder) RegisterParam(name string, _ handler.Middleware) {
	r.calls = append(r.calls, call{kind: "param", path: name, count: 1})
}

func TestBindings(t *testing.T) {
	t.Parallel()

	m := handler.Middleware{}
	many := []handler.Middleware{m, m, m}

	r := newRecorder()
	r.Use(m).
		UseWithMany(many).
		UseOnPath("/api", m).
		UseOnPathWithMany("/api", many).
		Param("id", m).
		All("/any", m).
		AllWithMany("/any", many).
		Get("/g", m).
		GetWithMany("/g", many).
		Post("/p", m).
		PostWithMany("/p", many).
		Put("/u", m).
		PutWithMany("/u", many).
		Patch("/pa", m).
		PatchWithMany("/pa", many).
		Delete("/d", m).
		DeleteWithMany("/d", many).
		Options("/o", m).
		OptionsWithMany("/o", many).
		Head("/h", m).
		HeadWithMany("/h", many)

	want := []call{
		{kind: "use", path: "/", count: 1},
		{kind: "use", path: "/", count: 3},
		{kind: "use", path: "/api", count: 1},
		{kind: "use", path: "/api", count: 3},
		{kind: "param", path: "id", count: 1},
		{kind: "route", method: routable.AnyMethod, path: "/any", count: 1},
		{kind: "route", method: routable.AnyMethod, path: "/any", count: 3},
		{kind: "route", method: http.MethodGet, path: "/g", count: 1},
		{kind: "route", method: http.MethodGet, path: "/g", count: 3},
		{kind: "route", method: http.MethodPost, path: "/p", count: 1},
		{kind: "route", method: http.MethodPost, path: "/p", count: 3},
		{kind: "route", method: http.MethodPut, path: "/u", count: 1},
		{kind: "route", method: http.MethodPut, path: "/u", count: 3},
		{kind: "route", method: http.MethodPatch, path: "/pa", count: 1},
		{kind: "route", method: http.MethodPatch, path: "/pa", count: 3},
		{kind: "route", method: http.MethodDelete, path: "/d", count: 1},
		{kind: "route", method: http.MethodDelete, path: "/d", count: 3},
		{kind: "route", method: http.MethodOptions, path: "/o", count: 1},
		{kind: "route", method: http.MethodOptions, path: "/o", count: 3},
		{kind: "route", method: http.MethodHead, path: "/h", count: 1},
		{kind: "route", method: http.MethodHead, path: "/h", count: 3},
	}
	require.Len(t, r.calls, len(want))
	assert.Equal(t, want, r.calls)
}
