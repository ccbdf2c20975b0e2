package uxio

import (
	"log/slog"
	"mime"
	"net/http"
)

// ErrorHandler maps an ingestion failure to an HTTP response. The
// request never reaches the wrapped handler when ingestion fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Config holds middleware settings loadable from the environment.
type Config struct {
	TempDir       string `env:"UXIO_TMP_DIR"`
	MaxFieldBytes int64  `env:"UXIO_MAX_FIELD_BYTES" envDefault:"1048576"`
	MaxFileBytes  int64  `env:"UXIO_MAX_FILE_BYTES" envDefault:"0"`
}

type options struct {
	tempDir       string
	log           *slog.Logger
	maxFieldBytes int64
	maxFileBytes  int64
	extract       Extractor
	onError       ErrorHandler
}

// Option configures the middleware.
type Option func(*options)

// WithTempDir sets the root directory for per-request upload caches.
// Defaults to the operating system temp directory.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithLogger sets the logger for ingestion, rollback and teardown
// diagnostics. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMaxFieldBytes caps a single non-file form field. Defaults to
// 1 MiB; values at or below zero keep the default.
func WithMaxFieldBytes(n int64) Option {
	return func(o *options) {
		o.maxFieldBytes = n
	}
}

// WithMaxFileBytes caps a single uploaded file. Zero means unlimited;
// requests over the cap are rejected with a 413 class error.
func WithMaxFileBytes(n int64) Option {
	return func(o *options) {
		o.maxFileBytes = n
	}
}

// WithExtractor replaces the built-in metadata extractor used to
// enrich persisted files.
func WithExtractor(fn Extractor) Option {
	return func(o *options) {
		o.extract = fn
	}
}

// WithErrorHandler replaces the default ingestion error response,
// which writes the typed error's status and message.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// Middleware returns a net/http middleware that streams multipart
// uploads into a per-request cache and attaches the upload registry to
// the request context.
//
// Only POST requests with a multipart/form-data content type are
// processed; everything else passes through untouched. The cache
// directory is removed when the wrapped handler returns, panics, or
// the client disconnects, so persisted files must be moved out of it
// inside the handler via Save or Send.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	o := &options{
		log:           newNoopLogger(),
		maxFieldBytes: defaultMaxFieldBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.onError == nil {
		o.onError = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMultipartPost(r) {
				next.ServeHTTP(w, r)
				return
			}

			cache, err := newCacheDir(o.tempDir, o.log)
			if err != nil {
				o.log.ErrorContext(r.Context(), "failed to create upload cache", slog.Any("error", err))
				o.onError(w, r, err)
				return
			}
			// Fires on normal return, panic unwinding, and client
			// disconnect alike.
			defer cache.teardown()

			uc := &Context{
				fields:  make(map[string]string),
				cache:   cache,
				log:     o.log,
				extract: o.extract,
			}

			if err := ingest(r, uc, o.maxFieldBytes, o.maxFileBytes); err != nil {
				o.log.ErrorContext(r.Context(), "upload ingestion failed", slog.Any("error", err))
				o.onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withContext(r.Context(), uc)))
		})
	}
}

// MiddlewareFromConfig builds the middleware from environment-derived
// settings. Explicit options are applied after the config and win.
func MiddlewareFromConfig(cfg Config, opts ...Option) func(http.Handler) http.Handler {
	base := []Option{
		WithTempDir(cfg.TempDir),
		WithMaxFieldBytes(cfg.MaxFieldBytes),
		WithMaxFileBytes(cfg.MaxFileBytes),
	}
	return Middleware(append(base, opts...)...)
}

// isMultipartPost reports whether the request carries a multipart form
// this middleware should consume.
func isMultipartPost(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "multipart/form-data"
}

// defaultErrorHandler writes the typed error's HTTP status and message.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	perr := asPipelineError(err)
	http.Error(w, perr.Message, perr.Status)
}
