// Package uxio streams multipart/form-data uploads through a per-request
// temp cache and persists them with all-or-nothing semantics.
//
// The package is built around three pieces:
//
//   - Middleware intercepts multipart POST requests, streams every file part
//     into a request-scoped cache directory, and exposes the result through a
//     Context stored on the request. The cache is removed when the request
//     finishes, whether the handler returns, panics, or the client goes away.
//   - Context answers what arrived: per-field file records, text field
//     values, and the two persistence engines.
//   - Save moves cached files to local disk; Send streams them to a named
//     remote provider. Both validate, rename, and either persist every
//     matched file or roll back everything the call already did.
//
// Basic Usage:
//
//	r := chi.NewRouter()
//	r.Use(uxio.Middleware())
//
//	r.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
//		up := uxio.FromRequest(r)
//		if up == nil || !up.HasFiles() {
//			http.Error(w, "nothing uploaded", http.StatusBadRequest)
//			return
//		}
//
//		infos, err := up.Save(r.Context(), uxio.SaveConfig{
//			Fields:    []string{"avatar"},
//			Dir:       "/srv/uploads",
//			CreateDir: true,
//			Required:  true,
//		})
//		if err != nil {
//			http.Error(w, err.Error(), uxio.HTTPStatus(err))
//			return
//		}
//		// infos[0].Path is the stored file
//	})
//
// Sending to remote storage works the same way through registered providers:
//
//	infos, err := up.Send(r.Context(), uxio.SendConfig{
//		Fields:   []string{"docs"},
//		Provider: "s3",
//		Options: provider.S3Options{
//			Bucket: "media",
//			Region: "us-east-1",
//		},
//	})
//
// Configuration can come from the environment via Config and
// MiddlewareFromConfig, and every failure surfaces as an *Error carrying a
// kind sentinel (ErrNotFound, ErrValidationFailed, ErrTooLarge, ...) plus an
// HTTP status, so handlers can map outcomes without string matching.
//
// The package follows these principles:
//   - Files hit the handler already on disk, never buffered in memory
//   - A request's cache never outlives the request
//   - A persistence call either completes for every matched file or leaves
//     nothing behind
package uxio
