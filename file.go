package uxio

import (
	"path/filepath"
	"strings"

	"github.com/uxiolabs/uxio/meta"
)

// CachedFile is the record of one uploaded file part, created by the
// ingestion stage and owned by the request Context until it is persisted or
// discarded together with the cache directory.
//
// OriginalName, Encoding and MIMEType are reported by the client and must be
// treated as untrusted input; the original name is only used for cosmetics
// and extension inference.
type CachedFile struct {
	// Field is the form field the part was submitted under. Not unique: a
	// single field may carry multiple files.
	Field string

	// OriginalName is the client-supplied filename.
	OriginalName string

	// Encoding is the Content-Transfer-Encoding declared for the part.
	Encoding string

	// MIMEType is the Content-Type declared for the part.
	MIMEType string

	// CachePath is the absolute path of the temporary on-disk copy. It is
	// unique per record and lives strictly inside the request cache
	// directory; it exists only until the file is moved or the cache
	// directory is destroyed.
	CachePath string

	// Size accumulates as data arrives; the final value is known only once
	// the part stream ends.
	Size int64

	// Truncated marks records whose part stream was cut short by a client
	// disconnect. Truncated records are never selected for persistence.
	Truncated bool
}

// FileInfo describes one successfully persisted file. It merges the original
// upload attributes with the final location and enrichment metadata, and is
// never mutated after creation.
type FileInfo struct {
	// Field and OriginalName carry over from the cached record.
	Field        string
	OriginalName string

	// Name is the final name chosen by the rename function, or the
	// sanitized original name.
	Name string

	// Size is the byte size of the persisted payload.
	Size int64

	// MIMEType and Encoding are the client-declared values.
	MIMEType string
	Encoding string

	// Path is the absolute destination path for locally saved files.
	Path string

	// Provider, Bucket, Key and URL are set for remotely sent files.
	Provider string
	Bucket   string
	Key      string
	URL      string

	// Response holds the remote endpoint's reply for providers that return
	// one (the generic HTTP provider merges its response body here).
	Response map[string]any

	// Meta is the best-effort enrichment result.
	Meta meta.Metadata
}

// SanitizeFilename strips path components and dangerous characters from a
// client-supplied filename so it can never escape its destination directory.
// Empty names and directory references collapse to "unnamed".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")

	if name == "" || name == "." || name == ".." || name == "/" {
		name = "unnamed"
	}

	return name
}

// cacheFileName derives the cache entry name for a part. Parts repeating the
// same field and original name get a numeric suffix from the cache when the
// entry already exists.
func cacheFileName(field, originalName string) string {
	return SanitizeFilename(field) + "__" + SanitizeFilename(originalName)
}
