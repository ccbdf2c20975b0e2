// Package requestid provides HTTP middleware and helpers for request
// correlation identifiers.
//
// A request ID is a short opaque string that uniquely identifies an incoming
// HTTP request. Propagating the same ID through headers, context, and
// structured logs makes it possible to correlate every record an upload
// produced, from ingestion through persistence.
//
// Middleware attaches an ID to every request: a client-supplied
// "X-Request-ID" header is validated and reused, otherwise a fresh UUID is
// generated. The chosen ID is stored in the request context and echoed back
// in the response header. WithContext and FromContext read and write the
// context value directly, and LoggerExtractor plugs into the logger package
// so every log record carries the ID automatically.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Use(uxio.Middleware(uxio.WithLogger(log)))
//
// The package never returns errors; invalid client-supplied IDs are silently
// replaced.
package requestid
