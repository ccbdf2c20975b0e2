package meta

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	// Register decoders for the image formats we can measure.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Kind is a coarse classification of a file's content.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

// Metadata is the enrichment result for one file. Zero-valued fields mean the
// corresponding probe failed or did not apply.
type Metadata struct {
	// MIMEType is the content-sniffed media type, not the declared one.
	MIMEType string

	// Extension is the canonical extension for the sniffed type, including
	// the leading dot.
	Extension string

	// Kind classifies the sniffed type.
	Kind Kind

	// Width and Height are set for decodable images.
	Width  int
	Height int

	// SHA256 is the hex digest of the file contents.
	SHA256 string
}

// documentMIMETypes lists types classified as documents. Everything textual
// that is not matched here still classifies as a document via the text/
// prefix check.
var documentMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                    true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/vnd.oasis.opendocument.text": true,
	"application/rtf":  true,
	"application/json": true,
	"application/xml":  true,
}

// Extract probes the file at path and returns whatever metadata could be
// gathered. It never fails; declaredMIME is only used as a classification
// fallback when content sniffing is impossible.
func Extract(path, declaredMIME string) Metadata {
	var m Metadata

	if mt, err := mimetype.DetectFile(path); err == nil {
		m.MIMEType = normalizeMIME(mt.String())
		m.Extension = mt.Extension()
	} else {
		m.MIMEType = normalizeMIME(declaredMIME)
	}

	m.Kind = classify(m.MIMEType)

	if m.Kind == KindImage {
		m.Width, m.Height = imageSize(path)
	}

	m.SHA256 = hashFile(path)

	return m
}

// classify maps a media type onto a Kind.
func classify(mimeType string) Kind {
	mimeType = normalizeMIME(mimeType)
	switch {
	case mimeType == "":
		return KindOther
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	case documentMIMETypes[mimeType], strings.HasPrefix(mimeType, "text/"):
		return KindDocument
	default:
		return KindOther
	}
}

// normalizeMIME strips parameters (charset etc.) and normalizes case.
func normalizeMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// imageSize decodes just the image header. Returns zeros for anything the
// standard decoders cannot read.
func imageSize(path string) (width, height int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// hashFile streams the file through SHA-256 without loading it into memory.
func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
