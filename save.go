package uxio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/uxiolabs/uxio/pkg/async"
)

// rollbackTimeout bounds the best-effort unwind batch after a failed
// persistence call.
const rollbackTimeout = 30 * time.Second

// RenameFunc chooses the destination name for one cached file. It must
// be pure; an empty result falls back to the sanitized original name.
// The returned name is sanitized, so it cannot introduce path
// separators or traversal.
type RenameFunc func(f *CachedFile) string

// Validation constrains the files a config selects. A nil Validation
// accepts everything.
type Validation struct {
	// MaxSize is the largest acceptable file in bytes. Zero means
	// unlimited. A file of exactly MaxSize bytes passes; one byte
	// more fails.
	MaxSize int64
	// MIMETypes is an allowlist matched against the declared MIME
	// type, ignoring parameters and case. Empty allows every type.
	MIMETypes []string
}

// SaveConfig directs one slice of the registry to a local directory.
type SaveConfig struct {
	// Fields names the form fields whose files this config persists.
	Fields []string
	// Field selects a single form field.
	//
	// Deprecated: use Fields. When both are set the field is folded
	// into Fields.
	Field string
	// Dir is the destination directory.
	Dir string
	// CreateDir creates Dir (and parents) when it does not exist.
	// Without it a missing directory fails the call with ErrNotFound.
	CreateDir bool
	// Required fails the call with ErrNotFound when no files matched.
	Required bool
	// Validation constrains size and declared MIME type.
	Validation *Validation
	// Rename chooses the destination file name.
	Rename RenameFunc
}

// Save persists selected cached files to local directories. Configs
// are processed in argument order, their matched files in arrival
// order, one at a time.
//
// The call is all-or-nothing: the first failure aborts everything,
// files already moved by this call are deleted best-effort, and the
// caller gets exactly one typed error. Files that were not selected,
// or not yet processed, stay in the request cache for teardown.
func (c *Context) Save(ctx context.Context, configs ...SaveConfig) ([]FileInfo, error) {
	var (
		results []FileInfo
		moved   []string
	)

	fail := func(err error) ([]FileInfo, error) {
		c.rollbackSaved(moved)
		return nil, err
	}

	for _, cfg := range configs {
		fields := normalizeFields(cfg.Fields, cfg.Field)
		files := c.selected(fields)
		if len(files) == 0 {
			if cfg.Required {
				return fail(newError(ErrNotFound, "no files uploaded for required fields %v", fields))
			}
			continue
		}

		if err := ensureDir(cfg.Dir, cfg.CreateDir); err != nil {
			return fail(err)
		}

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return fail(wrapError(ErrInternal, err, "save aborted"))
			}

			info, err := c.saveOne(f, cfg)
			if err != nil {
				return fail(err)
			}
			moved = append(moved, info.Path)
			results = append(results, info)
		}
	}

	return results, nil
}

// saveOne validates, enriches and moves a single cached file.
func (c *Context) saveOne(f *CachedFile, cfg SaveConfig) (FileInfo, error) {
	if err := validateFile(f, cfg.Validation); err != nil {
		return FileInfo{}, err
	}

	m := c.extractor()(f.CachePath, f.MIMEType)

	name := finalName(f, cfg.Rename)
	dest := filepath.Join(cfg.Dir, name)

	if _, err := os.Stat(dest); err == nil {
		return FileInfo{}, newError(ErrConflict, "file %s already exists", dest)
	} else if !os.IsNotExist(err) {
		return FileInfo{}, wrapError(ErrInternal, err, "stat destination %s", dest)
	}

	if err := moveFile(f.CachePath, dest); err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Field:        f.Field,
		OriginalName: f.OriginalName,
		Name:         name,
		Size:         f.Size,
		MIMEType:     f.MIMEType,
		Encoding:     f.Encoding,
		Path:         dest,
		Meta:         m,
	}, nil
}

// rollbackSaved deletes files this call already moved. Deletions run
// in an independent parallel batch because unwind order does not
// matter; failures are logged and swallowed.
func (c *Context) rollbackSaved(paths []string) {
	if len(paths) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	futures := make([]*async.Future[string], 0, len(paths))
	for _, p := range paths {
		futures = append(futures, async.Async(ctx, p, func(_ context.Context, path string) (string, error) {
			return path, os.Remove(path)
		}))
	}

	log := c.logger()
	for _, fut := range futures {
		if path, err := fut.Await(); err != nil {
			log.Error("failed to roll back saved file",
				slog.String("path", path),
				slog.Any("error", err))
		}
	}
}

// normalizeFields folds the deprecated single-field selector into the
// canonical list and drops empty names.
func normalizeFields(fields []string, single string) []string {
	out := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	if single != "" && !slices.Contains(out, single) {
		out = append(out, single)
	}
	return out
}

// selected returns the cached files matching any of the fields, in
// arrival order. Truncated records never qualify for persistence.
func (c *Context) selected(fields []string) []*CachedFile {
	if len(fields) == 0 {
		return nil
	}
	var out []*CachedFile
	for _, f := range c.files {
		if f.Truncated {
			continue
		}
		if slices.Contains(fields, f.Field) {
			out = append(out, f)
		}
	}
	return out
}

// validateFile checks a cached file against the config policy.
func validateFile(f *CachedFile, v *Validation) error {
	if v == nil {
		return nil
	}
	if v.MaxSize > 0 && f.Size > v.MaxSize {
		return newError(ErrValidationFailed, "file %q is %d bytes, limit is %d", f.OriginalName, f.Size, v.MaxSize)
	}
	if len(v.MIMETypes) > 0 {
		declared := normalizeMIME(f.MIMEType)
		allowed := false
		for _, mt := range v.MIMETypes {
			if normalizeMIME(mt) == declared {
				allowed = true
				break
			}
		}
		if !allowed {
			return newError(ErrValidationFailed, "MIME type %q of file %q is not allowed", f.MIMEType, f.OriginalName)
		}
	}
	return nil
}

// normalizeMIME strips parameters and lowercases a MIME type so
// "Text/Plain; charset=utf-8" compares equal to "text/plain".
func normalizeMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// finalName resolves the destination file name for a cached file.
func finalName(f *CachedFile, rename RenameFunc) string {
	if rename != nil {
		if name := rename(f); name != "" {
			return SanitizeFilename(name)
		}
	}
	return SanitizeFilename(f.OriginalName)
}

// ensureDir verifies the destination directory, creating it when the
// config allows.
func ensureDir(dir string, create bool) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return newError(ErrConflict, "destination %s is not a directory", dir)
		}
		return nil
	case os.IsNotExist(err):
		if !create {
			return newError(ErrNotFound, "destination directory %s does not exist", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapError(ErrInternal, err, "create destination directory %s", dir)
		}
		return nil
	default:
		return wrapError(ErrInternal, err, "stat destination directory %s", dir)
	}
}

// moveFile relocates a cached file into its destination. Rename keeps
// the move atomic when cache and destination share a filesystem; a
// cross-device move falls back to copy and remove.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		// The cache copy is gone: either already persisted by an
		// earlier call or cleaned up.
		return wrapError(ErrNotFound, err, "cached file %s no longer exists", src)
	}
	if !errors.Is(err, syscall.EXDEV) {
		return wrapError(ErrInternal, err, "move file to %s", dst)
	}
	return copyAcrossDevices(src, dst)
}

func copyAcrossDevices(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return wrapError(ErrInternal, err, "open cached file %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return wrapError(ErrInternal, err, "create file %s", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst) // partial file
		return wrapError(ErrInternal, err, "copy file to %s", dst)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return wrapError(ErrInternal, err, "sync file %s", dst)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return wrapError(ErrInternal, err, "close file %s", dst)
	}

	// The cache copy would be removed by teardown anyway; deleting it
	// now just frees space earlier.
	_ = os.Remove(src)
	return nil
}
