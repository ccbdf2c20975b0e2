package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of the remote reply is read into the
// result. Endpoints returning more than this are misbehaving for an
// upload acknowledgement.
const maxResponseBytes = 1 << 20

// HTTPOptions configures one send call against an HTTP endpoint.
type HTTPOptions struct {
	// URL is the endpoint the file is streamed to. Required.
	URL string
	// Method defaults to POST.
	Method string
	// Headers are set on the request in addition to the standard
	// content headers.
	Headers map[string]string
}

// Provider returns the identifier these options target.
func (HTTPOptions) Provider() string { return "http" }

// HTTP streams uploaded files to an arbitrary HTTP endpoint. The file
// content is the request body, described by Content-Type,
// Content-Length and Content-Disposition headers.
//
// HTTP does not implement Rollbacker: a generic endpoint offers no
// delete contract, so files transferred before a batch fails stay on
// the remote side.
type HTTP struct {
	client *http.Client
}

// HTTPOption configures the HTTP provider.
type HTTPOption func(*HTTP)

// WithHTTPTransportClient sets the client used for upload requests.
func WithHTTPTransportClient(client *http.Client) HTTPOption {
	return func(p *HTTP) {
		p.client = client
	}
}

// NewHTTP creates the HTTP provider. Without options it uses a client
// with a 30 second overall timeout.
func NewHTTP(opts ...HTTPOption) *HTTP {
	p := &HTTP{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the registry identifier.
func (p *HTTP) Name() string { return "http" }

// Upload streams the file to the configured URL and records the
// endpoint's reply in Result.Response.
func (p *HTTP) Upload(ctx context.Context, up Upload) (*Result, error) {
	o, ok := up.Options.(HTTPOptions)
	if !ok {
		return nil, fmt.Errorf("%w: http provider requires HTTPOptions, got %T", ErrInvalidOptions, up.Options)
	}
	if o.URL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidOptions)
	}

	method := o.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, o.URL, up.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	req.ContentLength = up.Size

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": up.Filename,
	}))
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUploadFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, o.URL, resp.StatusCode)
	}

	return &Result{
		Provider: p.Name(),
		URL:      o.URL,
		Response: decodeResponse(body),
	}, nil
}

// decodeResponse merges the endpoint reply into a map. JSON objects
// come through as-is; everything else, including empty bodies, lands
// under the "raw" key so callers always see what the endpoint said.
func decodeResponse(body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err == nil {
		return m
	}
	return map[string]any{"raw": string(body)}
}
