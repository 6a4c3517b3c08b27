// Package app ties the pipeline together: it wraps each request in the
// request and response views, runs the root router and answers whatever the
// middleware left unfinished.
//
//	a := app.New(app.WithLogger(log), app.WithEnv(app.EnvDevelopment))
//
//	a.Use(middleware.RequestID()).
//		Use(middleware.JSON()).
//		Get("/ping", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
//			return res.SendString("pong")
//		}))
//
//	api := router.New()
//	api.Get("/users/:id", handler.From(getUser))
//	a.UseRouterOnPath("/api", api)
//
//	err := a.Listen(ctx, 8080, "", func(addr string, err error) {
//		if err == nil {
//			log.Info("listening", "addr", addr)
//		}
//	})
//
// # Final handler
//
// A request that reaches the end of the root router without a response gets
// 404 "Cannot GET /path". An error that no error middleware handled is
// answered with the status from the error's StatusCode() method, 500
// otherwise. The message is shown for client errors and in development;
// server errors in production show only the status text. Clients preferring
// JSON get {"code": ..., "message": ...}.
//
// A handler that returns a zero handler.Done without finalizing is reported
// as handler.ErrIncomplete.
package app
