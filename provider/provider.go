package provider

import (
	"context"
	"io"
	"strings"
	"sync"
)

// Provider persists one uploaded file to a remote destination.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the identifier the provider registers under.
	Name() string
	// Upload transfers the file described by up and reports where it
	// ended up. Implementations must consume up.Body on success.
	Upload(ctx context.Context, up Upload) (*Result, error)
}

// Rollbacker is an optional capability for providers that can undo a
// completed upload. The send engine checks for it when a later file in
// the same batch fails and already-transferred objects must go away.
type Rollbacker interface {
	Rollback(ctx context.Context, ref RollbackRef) error
}

// Options carries provider-specific configuration for a send call.
// The Provider method names the provider the options target, which
// lets the engine reject mismatched configurations up front.
type Options interface {
	Provider() string
}

// Upload describes one file handed to a provider.
type Upload struct {
	// Body streams the cached file content. It is an open, seekable
	// file positioned at the start.
	Body io.Reader
	// Field is the form field the file arrived under.
	Field string
	// Filename is the final name chosen for the file after renaming
	// and sanitization.
	Filename string
	// Size is the exact content length in bytes.
	Size int64
	// ContentType is the best known MIME type, sniffed from content
	// when possible, falling back to the client declaration.
	ContentType string
	// Options holds the provider-specific configuration from the send
	// call. Providers assert it to their own options type and fail
	// with ErrInvalidOptions when the shape does not match.
	Options Options
}

// Result reports where an upload landed. Fields that do not apply to a
// given provider stay at their zero value.
type Result struct {
	Provider string
	Bucket   string
	Key      string
	URL      string
	// Response holds the remote endpoint's reply for providers that
	// return one. A JSON object body is decoded as-is; anything else
	// is kept under the "raw" key.
	Response map[string]any
	// Rollback identifies the uploaded object for a later Rollback
	// call. Zero for providers that cannot undo uploads.
	Rollback RollbackRef
}

// RollbackRef identifies one transferred object so its provider can
// delete it again. Options are the same values the upload used, which
// is how the provider re-establishes connectivity.
type RollbackRef struct {
	Bucket  string
	Key     string
	Options Options
}

var (
	regMu    sync.RWMutex
	registry = make(map[string]Provider)
)

// Register makes a provider available for lookup under its name.
// Names are case-insensitive; registering an existing name replaces
// the previous provider, which also lets tests install doubles.
func Register(p Provider) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[strings.ToLower(p.Name())] = p
}

// Lookup resolves a provider by its case-insensitive identifier.
// It returns nil when no provider is registered under the name.
func Lookup(name string) Provider {
	regMu.RLock()
	defer regMu.RUnlock()
	return registry[strings.ToLower(name)]
}

func init() {
	Register(NewS3())
	Register(NewHTTP())
}
