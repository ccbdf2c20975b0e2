package uxio

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/uxiolabs/uxio/meta"
)

type contextKey struct{}

// Context is the request-scoped upload registry. The middleware fills
// it while streaming the request body and attaches it to the request
// context; handlers query it and persist files through Save and Send.
//
// A Context is populated by a single goroutine before the wrapped
// handler runs and is read-only afterwards, so no locking is required
// for queries or persistence calls made from the handler.
type Context struct {
	files   []*CachedFile
	fields  map[string]string
	cache   *cacheDir
	log     *slog.Logger
	extract Extractor
}

// Extractor derives descriptive metadata for a cached file. It runs
// best-effort after validation: whatever it cannot determine stays at
// the zero value, and it must never fail the persistence call.
type Extractor func(path, declaredMIME string) meta.Metadata

// HasFile reports whether at least one file part arrived for field.
func (c *Context) HasFile(field string) bool {
	for _, f := range c.files {
		if f.Field == field {
			return true
		}
	}
	return false
}

// HasFiles reports whether every named field has at least one file.
// With no arguments it reports whether any file arrived at all.
func (c *Context) HasFiles(fields ...string) bool {
	if len(fields) == 0 {
		return len(c.files) > 0
	}
	for _, field := range fields {
		if !c.HasFile(field) {
			return false
		}
	}
	return true
}

// Files returns all cached file records in arrival order. The returned
// slice is a copy; the records it points to are shared and must be
// treated as read-only.
func (c *Context) Files() []*CachedFile {
	out := make([]*CachedFile, len(c.files))
	copy(out, c.files)
	return out
}

// FilesFor returns the cached records for one field in arrival order.
func (c *Context) FilesFor(field string) []*CachedFile {
	var out []*CachedFile
	for _, f := range c.files {
		if f.Field == field {
			out = append(out, f)
		}
	}
	return out
}

// FormValue returns the value of a non-file form field, or the empty
// string when the field is absent. Repeated fields keep the last value.
func (c *Context) FormValue(name string) string {
	return c.fields[name]
}

// Fields returns a copy of all non-file form fields.
func (c *Context) Fields() map[string]string {
	out := make(map[string]string, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out
}

// Cleanup removes the request cache directory and all files still in
// it. It is idempotent and safe to call at any time; the middleware
// also triggers it when the request ends, so calling it early only
// releases disk space sooner. Cached records become unusable for Save
// and Send afterwards.
func (c *Context) Cleanup() {
	if c.cache != nil {
		c.cache.teardown()
	}
}

// logger returns the request logger, falling back to a no-op logger so
// engine code never has to nil-check.
func (c *Context) logger() *slog.Logger {
	if c.log == nil {
		return newNoopLogger()
	}
	return c.log
}

// extractor returns the configured metadata extractor, defaulting to
// the built-in content sniffer.
func (c *Context) extractor() Extractor {
	if c.extract == nil {
		return meta.Extract
	}
	return c.extract
}

// withContext attaches the upload registry to a request context.
func withContext(ctx context.Context, uc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, uc)
}

// FromContext extracts the upload registry from a context. It returns
// nil when the request did not pass through the middleware or was not
// a multipart POST.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	uc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok {
		return nil
	}
	return uc
}

// FromRequest extracts the upload registry from an HTTP request.
func FromRequest(r *http.Request) *Context {
	return FromContext(r.Context())
}
