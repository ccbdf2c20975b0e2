package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Field records a multipart form field name under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Filename records a file name under the key "filename".
func Filename(name string) slog.Attr {
	return slog.String("filename", name)
}

// Provider records a storage provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Bucket records a storage bucket under the key "bucket".
func Bucket(name string) slog.Attr {
	return slog.String("bucket", name)
}

// Key records a storage object key under the key "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Bytes records a byte count under the key "bytes".
func Bytes(n int64) slog.Attr {
	return slog.Int64("bytes", n)
}

// MIMEType records a media type under the key "mime_type".
func MIMEType(mimeType string) slog.Attr {
	return slog.String("mime_type", mimeType)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
