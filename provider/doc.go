// Package provider defines pluggable remote destinations for uploaded files.
//
// A provider takes a cached upload and persists it somewhere outside the
// local filesystem: an S3-compatible object store, an arbitrary HTTP
// endpoint, or anything an application registers itself. Providers are
// resolved by a case-insensitive identifier through a process-wide
// registry, so send configurations can name destinations as plain
// strings.
//
// # Built-in providers
//
// Two providers are registered automatically:
//   - "s3": AWS S3 and S3-compatible services (MinIO, Wasabi, R2)
//   - "http": streams the file to a configured URL
//
// # Registering custom providers
//
// Implement the Provider interface and register an instance:
//
//	type discard struct{}
//
//	func (discard) Name() string { return "discard" }
//
//	func (discard) Upload(ctx context.Context, up provider.Upload) (*provider.Result, error) {
//		_, err := io.Copy(io.Discard, up.Body)
//		return &provider.Result{Provider: "discard"}, err
//	}
//
//	func init() {
//		provider.Register(discard{})
//	}
//
// # Rollback
//
// Providers that can undo a completed upload additionally implement
// Rollbacker. The send engine uses it to delete already-transferred
// objects when a later file in the same batch fails, keeping batches
// all-or-nothing. Providers without Rollbacker (such as "http") leave
// transferred files behind on failure; that limitation is documented on
// the provider.
//
// # Options
//
// Each provider declares its own options type (S3Options, HTTPOptions).
// The Options interface carries the provider identifier so mismatched
// configurations are rejected before any bytes move.
package provider
