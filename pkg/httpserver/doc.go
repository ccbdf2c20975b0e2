// Package httpserver provides a lightweight wrapper around net/http that adds
// graceful shutdown, configurable server timeouts, health-check handlers, and
// structured logging via slog.
//
// The core type is Server. Run starts the underlying http.Server in its own
// goroutine and blocks until the context is canceled or an interrupt/TERM
// signal is received, then shuts down gracefully within a configurable
// deadline. Construction goes through New or NewFromConfig with Option
// helpers such as WithAddr, WithReadTimeout and WithLogger. WithStartHook and
// WithStopHook run side effects around the server lifecycle.
//
// HealthCheckHandler serves both liveness and readiness probes; for upload
// services DirWritableCheck probes that the cache root still accepts writes.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(uxio.Middleware(uxio.WithTempDir(cfg.TempDir)))
//	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log,
//	    httpserver.DirWritableCheck(cfg.TempDir),
//	))
//	r.Post("/upload", uploadHandler)
//
//	srv := httpserver.New(
//	    httpserver.WithAddr(":8080"),
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownTimeout(10*time.Second),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen failures with ErrStart; Shutdown wraps shutdown failures
// with ErrShutdown. Both are sentinel errors usable with errors.Is.
package httpserver
