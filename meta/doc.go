// Package meta extracts descriptive metadata from uploaded files.
//
// Extraction is strictly best-effort: Extract never returns an error, and any
// failure (unreadable file, unknown format, corrupt image header) degrades to
// zero-valued fields. This makes the package safe to call from transactional
// code paths that must not fail because of a content inspector.
//
// The detected MIME type comes from content sniffing via
// github.com/gabriel-vasile/mimetype rather than from the client-declared
// type, so a renamed file cannot spoof its way through kind classification.
//
// Usage:
//
//	m := meta.Extract("/tmp/upload/avatar__a.png", "image/png")
//	if m.Kind == meta.KindImage {
//	    fmt.Println(m.Width, m.Height)
//	}
package meta
