package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxiolabs/uxio/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("upload", slog.String("field", "avatar"), slog.Int("n", 2))
	require.Equal(t, "upload", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "field", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())

	empty := logger.RequestID(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUploadAttrs(t *testing.T) {
	assert.Equal(t, slog.String("field", "avatar"), logger.Field("avatar"))
	assert.Equal(t, slog.String("filename", "me.png"), logger.Filename("me.png"))
	assert.Equal(t, slog.String("provider", "s3"), logger.Provider("s3"))
	assert.Equal(t, slog.String("bucket", "media"), logger.Bucket("media"))
	assert.Equal(t, slog.String("key", "uploads/me.png"), logger.Key("uploads/me.png"))
	assert.Equal(t, slog.Int64("bytes", 51200), logger.Bytes(51200))
	assert.Equal(t, slog.String("mime_type", "image/png"), logger.MIMEType("image/png"))
	assert.Equal(t, slog.String("component", "ingest"), logger.Component("ingest"))
	assert.Equal(t, slog.String("event", "file_stored"), logger.Event("file_stored"))
}

func TestDuration(t *testing.T) {
	attr := logger.Duration(2 * time.Second)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, 2*time.Second, attr.Value.Any())
}
