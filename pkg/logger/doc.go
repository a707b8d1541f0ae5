// Package logger builds *slog.Logger instances for the resource cache and its
// tooling, and provides attribute helpers so cache events are logged with
// consistent keys.
//
// New creates a logger from functional options:
//
//   - WithEnvironment applies development/staging/production defaults.
//   - WithFormat and WithLevel override output format and minimum level.
//   - WithAttr attaches static attributes.
//   - WithContextExtractors and WithContextValue inject attributes pulled from
//     context.Context on every record.
//
// Library packages in this module default to Discard and accept a logger
// through their own WithLogger option.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "rescache-demo"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	log.Debug("entry scheduled for eviction",
//	    logger.Key("user~userId=zorah"),
//	    logger.Timeout(150*time.Second),
//	)
//
// Helpers such as Error, Owner and Status return an empty slog.Attr for zero
// inputs, so they can be passed unconditionally.
package logger
