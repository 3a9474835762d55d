// Package logger builds the service's *slog.Logger.
//
// New takes functional options for format, level, static attributes and
// ContextExtractor callbacks. Extractors run on every record, so values that
// live in the request context (the request id, the environment) end up on
// every line logged with a *Context method.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "gemaelde"),
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "gemaelde created", logger.GemaeldeID(id))
//
// The attribute helpers (Error, GemaeldeID, Component, ...) keep key names
// consistent and return an empty Attr for nil or empty input, so callers do
// not need nil checks. Middleware writes one access log line per request.
package logger
