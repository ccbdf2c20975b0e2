// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The single factory New creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, static attributes
// applied to every record, and ContextExtractor callbacks that pull dynamic
// attributes out of the context on every Handle call.
//
// # Architecture
//
// New picks the concrete handler (slog.NewTextHandler or slog.NewJSONHandler)
// from the configured Format, applies static attributes, and wraps the result
// in LogHandlerDecorator, which runs the registered extractors before
// delegating.
//
// Helper constructors in attr.go return commonly used slog.Attr values so
// attribute naming stays consistent across upload services: Error, Field,
// Filename, Provider, Bucket, Bytes and friends.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithJSONFormatter(),
//	    logger.WithLevel(slog.LevelInfo),
//	    logger.WithAttr(slog.String("service", "upload-gateway")),
//	)
//	log.Info("file stored", logger.Filename("report.pdf"), logger.Bytes(51200))
//
// WithDevelopment and WithProduction bundle sensible defaults for the two
// common deployment shapes; WithEnvironment selects between them from a
// configuration string.
package logger
