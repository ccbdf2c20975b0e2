package uxio_test

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/uxiolabs/uxio"
	"github.com/uxiolabs/uxio/pkg/config"
	"github.com/uxiolabs/uxio/pkg/httpserver"
	"github.com/uxiolabs/uxio/pkg/logger"
	"github.com/uxiolabs/uxio/pkg/requestid"
	"github.com/uxiolabs/uxio/provider"
)

// A profile endpoint that stores one validated avatar on local disk.
func ExampleMiddleware() {
	r := chi.NewRouter()
	r.Use(uxio.Middleware(
		uxio.WithMaxFileBytes(32 << 20),
	))

	r.Post("/profile", func(w http.ResponseWriter, r *http.Request) {
		up := uxio.FromRequest(r)
		if up == nil || !up.HasFile("avatar") {
			http.Error(w, "avatar is required", http.StatusBadRequest)
			return
		}

		infos, err := up.Save(r.Context(), uxio.SaveConfig{
			Fields:    []string{"avatar"},
			Dir:       "/srv/uploads/avatars",
			CreateDir: true,
			Required:  true,
			Validation: &uxio.Validation{
				MaxSize:   5 << 20,
				MIMETypes: []string{"image/png", "image/jpeg"},
			},
		})
		if err != nil {
			http.Error(w, err.Error(), uxio.HTTPStatus(err))
			return
		}

		w.Write([]byte("stored at " + infos[0].Path))
	})

	http.ListenAndServe(":8080", r)
}

// Streaming a batch of documents to S3-compatible storage with date-stamped
// object keys. Either every document lands in the bucket or none do.
func ExampleContext_Send() {
	r := chi.NewRouter()
	r.Use(uxio.Middleware())

	r.Post("/documents", func(w http.ResponseWriter, r *http.Request) {
		up := uxio.FromRequest(r)
		if up == nil {
			http.Error(w, "multipart form expected", http.StatusBadRequest)
			return
		}

		infos, err := up.Send(r.Context(), uxio.SendConfig{
			Fields:   []string{"docs"},
			Provider: "s3",
			Required: true,
			Options: provider.S3Options{
				Bucket:    "media",
				Region:    "us-east-1",
				KeyPrefix: "incoming",
			},
			Rename: func(f *uxio.CachedFile) string {
				return time.Now().UTC().Format("20060102") + "-" + f.OriginalName
			},
		})
		if err != nil {
			http.Error(w, err.Error(), uxio.HTTPStatus(err))
			return
		}

		for _, info := range infos {
			w.Write([]byte(info.URL + "\n"))
		}
	})

	http.ListenAndServe(":8080", r)
}

// Full service assembly: environment configuration, request-scoped logging,
// readiness probing of the cache root, and graceful shutdown.
func ExampleMiddlewareFromConfig() {
	var cfg uxio.Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithProduction("upload-gateway"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	cacheRoot := cfg.TempDir
	if cacheRoot == "" {
		cacheRoot = os.TempDir()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(uxio.MiddlewareFromConfig(cfg, uxio.WithLogger(log)))

	r.Get("/healthz", httpserver.HealthCheckHandler(context.Background(), log,
		httpserver.DirWritableCheck(cacheRoot),
	))
	r.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
		up := uxio.FromRequest(r)
		if up == nil || !up.HasFiles() {
			http.Error(w, "nothing uploaded", http.StatusBadRequest)
			return
		}

		infos, err := up.Save(r.Context(), uxio.SaveConfig{
			Fields:    []string{"docs", "images"},
			Dir:       "/srv/uploads",
			CreateDir: true,
		})
		if err != nil {
			http.Error(w, err.Error(), uxio.HTTPStatus(err))
			return
		}
		log.InfoContext(r.Context(), "files stored", slog.Int("count", len(infos)))
		w.WriteHeader(http.StatusCreated)
	})

	srv := httpserver.New(
		httpserver.WithAddr(":8080"),
		httpserver.WithLogger(log),
		httpserver.WithShutdownTimeout(10*time.Second),
	)
	if err := srv.Run(context.Background(), r); err != nil {
		log.Error("server stopped", logger.Error(err))
	}
}
