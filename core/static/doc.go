// Package static serves files as middleware.
//
// Serve and ServeFS resolve the request path below a root relative to the
// mount point, so the same middleware works at "/" or under a prefix:
//
//	a.UseOnPath("/assets", static.Serve("./public", static.WithMaxAge(24*time.Hour)))
//	a.Use(static.ServeFS(embedded, static.WithSubFS("dist")))
//
// Only GET and HEAD are served. Other methods and missing files advance to
// the next middleware unless WithFallthrough(false) is set, in which case
// they answer 405 or fail with a 404 error.
//
// Directories without a trailing slash are redirected with 301; with a
// trailing slash the index files are tried in order. Dotfiles are ignored
// by default. Responses carry Cache-Control, a weak ETag and Last-Modified,
// and Range and conditional requests are answered by the response layer.
//
// File sends one file regardless of the request path:
//
//	a.Get("/favicon.ico", static.File("./public/favicon.ico"))
//
// SPA serves a single page application. Unknown paths that accept HTML get
// the index file so client-side routing works; API prefixes are excluded:
//
//	a.Use(static.SPA(embedded, static.WithSubFS("dist"), static.WithExcludePaths("/api")))
//
// Constructors validate their inputs and panic on startup errors.
package static
