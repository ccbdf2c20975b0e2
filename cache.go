package uxio

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// cacheDir is the per-request staging area for uploaded file parts.
// Every request that carries multipart content gets its own directory
// under the configured root, so concurrent requests never share paths
// and teardown can remove everything with a single call.
type cacheDir struct {
	path string
	log  *slog.Logger
	once sync.Once
}

// newCacheDir creates a fresh request-scoped directory under root.
// An empty root falls back to the operating system temp directory.
// The directory is created eagerly so that streaming can start as soon
// as the first file part arrives.
func newCacheDir(root string, log *slog.Logger) (*cacheDir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if log == nil {
		log = newNoopLogger()
	}
	path := filepath.Join(root, "uxio-"+uuid.New().String())
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, wrapError(ErrInternal, err, "create cache directory %s", path)
	}
	return &cacheDir{path: path, log: log}, nil
}

// filePath returns the absolute cache location for a stored part name.
func (d *cacheDir) filePath(name string) string {
	return filepath.Join(d.path, name)
}

// create opens a new cache file for writing. Cache file names are
// derived from sanitized field and file names, so collisions within a
// request are resolved by appending a counter suffix.
func (d *cacheDir) create(name string) (*os.File, string, error) {
	target := d.filePath(name)
	for i := 1; ; i++ {
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, target, nil
		}
		if !os.IsExist(err) {
			return nil, "", wrapError(ErrInternal, err, "create cache file %s", target)
		}
		target = d.filePath(name + "." + strconv.Itoa(i))
	}
}

// teardown removes the cache directory and everything in it. It is safe
// to call any number of times and from multiple goroutines; only the
// first call does work. Removal failures are logged and swallowed
// because teardown runs on paths where no caller can act on the error.
func (d *cacheDir) teardown() {
	d.once.Do(func() {
		if _, err := os.Stat(d.path); os.IsNotExist(err) {
			return
		}
		if err := os.RemoveAll(d.path); err != nil {
			d.log.Error("failed to remove upload cache directory",
				slog.String("dir", d.path),
				slog.Any("error", err))
		}
	})
}
