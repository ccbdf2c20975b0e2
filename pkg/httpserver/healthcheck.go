package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/uxiolabs/uxio/pkg/logger"
)

// HealthCheckHandler returns an HTTP handler usable for both liveness and
// readiness probes.
//
//   - Liveness: with no dependency functions the handler returns 200 OK with
//     body "ALIVE".
//   - Readiness: with dependency functions each one is executed; if all
//     succeed the handler returns 200 OK with body "READY", otherwise 500
//     with body "NOT_READY".
func HealthCheckHandler(ctx context.Context, log *slog.Logger, funcs ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(funcs) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, f := range funcs {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}

// DirWritableCheck returns a readiness function that verifies dir exists and
// accepts writes. Upload services probe their cache root with it, so a full
// disk or a bad mount flips the instance out of rotation before requests
// start failing mid-stream.
func DirWritableCheck(dir string) func(context.Context) error {
	return func(context.Context) error {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		probe, err := os.CreateTemp(dir, ".readiness-*")
		if err != nil {
			return fmt.Errorf("write probe in %s: %w", dir, err)
		}
		name := probe.Name()
		if err := probe.Close(); err != nil {
			return fmt.Errorf("close probe %s: %w", filepath.Base(name), err)
		}
		return os.Remove(name)
	}
}
