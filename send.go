package uxio

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/uxiolabs/uxio/pkg/async"
	"github.com/uxiolabs/uxio/provider"
)

// SendConfig directs one slice of the registry to a remote provider.
type SendConfig struct {
	// Fields names the form fields whose files this config sends.
	Fields []string
	// Field selects a single form field.
	//
	// Deprecated: use Fields. When both are set the field is folded
	// into Fields.
	Field string
	// Provider is the case-insensitive identifier of a registered
	// provider, such as "s3" or "http".
	Provider string
	// Options carries the provider-specific settings. Their target
	// provider must match Provider.
	Options provider.Options
	// Required fails the call with ErrNotFound when no files matched.
	Required bool
	// Validation constrains size and declared MIME type.
	Validation *Validation
	// Rename chooses the remote file name.
	Rename RenameFunc
}

// sentObject is one ledger entry of the send engine: an upload that
// completed and can be undone.
type sentObject struct {
	rb  provider.Rollbacker
	ref provider.RollbackRef
}

// Send transfers selected cached files to remote providers. Configs
// are processed in argument order, their matched files in arrival
// order, one upload at a time.
//
// The call is all-or-nothing: the first failure aborts everything and
// uploads already completed by this call are deleted best-effort
// through their provider's Rollback. Providers without rollback
// support leave transferred files behind; the "http" provider is one
// of those. Cached files always stay in the request cache for
// teardown, a send never consumes them.
func (c *Context) Send(ctx context.Context, configs ...SendConfig) ([]FileInfo, error) {
	var (
		results []FileInfo
		sent    []sentObject
	)

	fail := func(err error) ([]FileInfo, error) {
		c.rollbackSent(sent)
		return nil, err
	}

	for _, cfg := range configs {
		p := provider.Lookup(cfg.Provider)
		if p == nil {
			return fail(newError(ErrUnsupportedProvider, "unknown provider %q", cfg.Provider))
		}
		if cfg.Options != nil && !strings.EqualFold(cfg.Options.Provider(), p.Name()) {
			return fail(newError(ErrProviderConfigInvalid,
				"options for provider %q passed to provider %q", cfg.Options.Provider(), cfg.Provider))
		}

		fields := normalizeFields(cfg.Fields, cfg.Field)
		files := c.selected(fields)
		if len(files) == 0 {
			if cfg.Required {
				return fail(newError(ErrNotFound, "no files uploaded for required fields %v", fields))
			}
			continue
		}

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return fail(wrapError(ErrInternal, err, "send aborted"))
			}

			info, res, err := c.sendOne(ctx, p, f, cfg)
			if err != nil {
				return fail(err)
			}
			if rb, ok := p.(provider.Rollbacker); ok {
				sent = append(sent, sentObject{rb: rb, ref: res.Rollback})
			}
			results = append(results, info)
		}
	}

	return results, nil
}

// sendOne validates, enriches and uploads a single cached file.
func (c *Context) sendOne(ctx context.Context, p provider.Provider, f *CachedFile, cfg SendConfig) (FileInfo, *provider.Result, error) {
	if err := validateFile(f, cfg.Validation); err != nil {
		return FileInfo{}, nil, err
	}

	m := c.extractor()(f.CachePath, f.MIMEType)

	name := finalName(f, cfg.Rename)

	src, err := os.Open(f.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, nil, wrapError(ErrNotFound, err, "cached file for %q no longer exists", f.OriginalName)
		}
		return FileInfo{}, nil, wrapError(ErrInternal, err, "open cached file %s", f.CachePath)
	}
	defer func() { _ = src.Close() }()

	contentType := m.MIMEType
	if contentType == "" {
		contentType = normalizeMIME(f.MIMEType)
	}

	res, err := p.Upload(ctx, provider.Upload{
		Body:        src,
		Field:       f.Field,
		Filename:    name,
		Size:        f.Size,
		ContentType: contentType,
		Options:     cfg.Options,
	})
	if err != nil {
		return FileInfo{}, nil, mapProviderError(err, cfg.Provider)
	}

	return FileInfo{
		Field:        f.Field,
		OriginalName: f.OriginalName,
		Name:         name,
		Size:         f.Size,
		MIMEType:     f.MIMEType,
		Encoding:     f.Encoding,
		Provider:     res.Provider,
		Bucket:       res.Bucket,
		Key:          res.Key,
		URL:          res.URL,
		Response:     res.Response,
		Meta:         m,
	}, res, nil
}

// rollbackSent undoes uploads this call already completed. Deletions
// run in an independent parallel batch with their own deadline;
// failures are logged and swallowed.
func (c *Context) rollbackSent(sent []sentObject) {
	if len(sent) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	futures := make([]*async.Future[string], 0, len(sent))
	for _, s := range sent {
		futures = append(futures, async.Async(ctx, s, func(ctx context.Context, s sentObject) (string, error) {
			return s.ref.Key, s.rb.Rollback(ctx, s.ref)
		}))
	}

	log := c.logger()
	for _, fut := range futures {
		if key, err := fut.Await(); err != nil {
			log.Error("failed to roll back uploaded file",
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// mapProviderError translates provider failures into the pipeline
// taxonomy. Option shape problems are configuration errors; anything
// else is an internal failure with the cause preserved.
func mapProviderError(err error, name string) error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, provider.ErrInvalidOptions) {
		return wrapError(ErrProviderConfigInvalid, err, "provider %q rejected its options", name)
	}
	return wrapError(ErrInternal, err, "provider %q upload failed", name)
}
