package provider_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uxiolabs/uxio/provider"
)

// MockS3Client is a mock implementation of the S3Client interface.
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func s3Upload(opts provider.Options) provider.Upload {
	content := "object content"
	return provider.Upload{
		Body:        strings.NewReader(content),
		Field:       "docs",
		Filename:    "report.pdf",
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Options:     opts,
	}
}

func TestS3Upload(t *testing.T) {
	t.Parallel()

	t.Run("successful upload", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)

		mockClient.On("PutObject",
			mock.Anything, // context
			mock.MatchedBy(func(params *s3.PutObjectInput) bool {
				return params.Bucket != nil && *params.Bucket == "test-bucket" &&
					params.Key != nil && *params.Key == "report.pdf" &&
					params.Body != nil &&
					params.ContentType != nil && *params.ContentType == "application/pdf" &&
					params.ContentLength != nil && *params.ContentLength == int64(len("object content"))
			}),
			mock.Anything, // optFns
		).Return(&s3.PutObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		result, err := p.Upload(context.Background(), s3Upload(provider.S3Options{
			Bucket: "test-bucket",
			Region: "us-east-1",
		}))
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "s3", result.Provider)
		assert.Equal(t, "test-bucket", result.Bucket)
		assert.Equal(t, "report.pdf", result.Key)
		assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/report.pdf", result.URL)
		assert.Equal(t, "test-bucket", result.Rollback.Bucket)
		assert.Equal(t, "report.pdf", result.Rollback.Key)

		mockClient.AssertExpectations(t)
	})

	t.Run("key prefix is joined with file name", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)

		mockClient.On("PutObject",
			mock.Anything,
			mock.MatchedBy(func(params *s3.PutObjectInput) bool {
				return params.Key != nil && *params.Key == "uploads/2024/report.pdf"
			}),
			mock.Anything,
		).Return(&s3.PutObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		result, err := p.Upload(context.Background(), s3Upload(provider.S3Options{
			Bucket:    "test-bucket",
			Region:    "us-east-1",
			KeyPrefix: "/uploads/2024/",
		}))
		require.NoError(t, err)
		assert.Equal(t, "uploads/2024/report.pdf", result.Key)

		mockClient.AssertExpectations(t)
	})

	t.Run("endpoint based URL", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(&s3.PutObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		result, err := p.Upload(context.Background(), s3Upload(provider.S3Options{
			Bucket:         "media",
			Region:         "us-east-1",
			Endpoint:       "http://localhost:9000",
			ForcePathStyle: true,
		}))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/media/report.pdf", result.URL)
	})

	t.Run("custom base URL", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(&s3.PutObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		result, err := p.Upload(context.Background(), s3Upload(provider.S3Options{
			Bucket:  "media",
			Region:  "us-east-1",
			BaseURL: "https://cdn.example.com/",
		}))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/report.pdf", result.URL)
	})

	t.Run("default content type", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject",
			mock.Anything,
			mock.MatchedBy(func(params *s3.PutObjectInput) bool {
				return params.ContentType != nil && *params.ContentType == "application/octet-stream"
			}),
			mock.Anything,
		).Return(&s3.PutObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		up := s3Upload(provider.S3Options{Bucket: "b", Region: "r"})
		up.ContentType = ""
		_, err := p.Upload(context.Background(), up)
		require.NoError(t, err)

		mockClient.AssertExpectations(t)
	})

	t.Run("wrong options type", func(t *testing.T) {
		t.Parallel()
		p := provider.NewS3(provider.WithS3Client(new(MockS3Client)))

		_, err := p.Upload(context.Background(), s3Upload(provider.HTTPOptions{URL: "http://x"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrInvalidOptions))
	})

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()
		p := provider.NewS3(provider.WithS3Client(new(MockS3Client)))

		_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Region: "us-east-1"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrInvalidOptions))
	})

	t.Run("missing region", func(t *testing.T) {
		t.Parallel()
		p := provider.NewS3(provider.WithS3Client(new(MockS3Client)))

		_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Bucket: "b"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrInvalidOptions))
	})

	t.Run("AccessDenied error", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{
				Code:    "AccessDenied",
				Message: "Access Denied",
			})

		p := provider.NewS3(provider.WithS3Client(mockClient))

		_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Bucket: "b", Region: "r"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrAccessDenied))
	})

	t.Run("throttling error", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "SlowDown", Message: "Reduce your request rate"})

		p := provider.NewS3(provider.WithS3Client(mockClient))

		_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Bucket: "b", Region: "r"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrServiceUnavailable))
	})

	t.Run("generic error", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		p := provider.NewS3(provider.WithS3Client(mockClient))

		_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Bucket: "b", Region: "r"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrUploadFailed))
	})
}

func TestS3Rollback(t *testing.T) {
	t.Parallel()

	t.Run("deletes uploaded object", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("DeleteObject",
			mock.Anything,
			mock.MatchedBy(func(params *s3.DeleteObjectInput) bool {
				return params.Bucket != nil && *params.Bucket == "test-bucket" &&
					params.Key != nil && *params.Key == "uploads/report.pdf"
			}),
			mock.Anything,
		).Return(&s3.DeleteObjectOutput{}, nil)

		p := provider.NewS3(provider.WithS3Client(mockClient))

		err := p.Rollback(context.Background(), provider.RollbackRef{
			Bucket:  "test-bucket",
			Key:     "uploads/report.pdf",
			Options: provider.S3Options{Bucket: "test-bucket", Region: "us-east-1"},
		})
		require.NoError(t, err)

		mockClient.AssertExpectations(t)
	})

	t.Run("delete error is classified", func(t *testing.T) {
		t.Parallel()
		mockClient := new(MockS3Client)
		mockClient.On("DeleteObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})

		p := provider.NewS3(provider.WithS3Client(mockClient))

		err := p.Rollback(context.Background(), provider.RollbackRef{
			Bucket:  "b",
			Key:     "k",
			Options: provider.S3Options{Bucket: "b", Region: "r"},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrAccessDenied))
	})

	t.Run("wrong options type", func(t *testing.T) {
		t.Parallel()
		p := provider.NewS3(provider.WithS3Client(new(MockS3Client)))

		err := p.Rollback(context.Background(), provider.RollbackRef{Bucket: "b", Key: "k"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrInvalidOptions))
	})
}

func TestS3BodyStreaming(t *testing.T) {
	t.Parallel()

	mockClient := new(MockS3Client)
	mockClient.On("PutObject",
		mock.Anything,
		mock.MatchedBy(func(params *s3.PutObjectInput) bool {
			data, err := io.ReadAll(params.Body)
			return err == nil && string(data) == "object content"
		}),
		mock.Anything,
	).Return(&s3.PutObjectOutput{}, nil)

	p := provider.NewS3(provider.WithS3Client(mockClient))

	_, err := p.Upload(context.Background(), s3Upload(provider.S3Options{Bucket: "b", Region: "r"}))
	require.NoError(t, err)

	mockClient.AssertExpectations(t)
}
