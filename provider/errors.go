package provider

import "errors"

var (
	// Configuration errors
	ErrInvalidOptions = errors.New("invalid provider options")

	// Upload errors
	ErrUploadFailed     = errors.New("upload failed")
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// S3 classification errors
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable") // Used for throttling and retries

	// Context and cancellation errors
	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	// AWS setup errors
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
