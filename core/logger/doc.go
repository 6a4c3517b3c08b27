// Package logger builds *slog.Logger values and provides typed attribute
// helpers for the pipeline's log lines.
//
//	log := logger.New(logger.WithDevelopment("api"))
//	log := logger.New(logger.WithProduction("api"), logger.WithOutput(os.Stderr))
//
// Development mode renders colored text through tint when the output is a
// terminal; production mode writes JSON.
//
// Context values can be lifted into every record:
//
//	log := logger.New(
//		logger.WithProduction("api"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
// Attribute helpers return an empty Attr for zero inputs so they are safe
// to pass unconditionally:
//
//	log.ErrorContext(ctx, "request failed",
//		logger.Error(err),
//		logger.Method(req.Method()),
//		logger.Path(req.Path()),
//		logger.StatusCode(res.StatusCode()),
//	)
package logger
