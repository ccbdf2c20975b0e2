package uxio

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindMatching(t *testing.T) {
	t.Parallel()

	t.Run("derived errors match their sentinel", func(t *testing.T) {
		t.Parallel()

		err := newError(ErrNotFound, "no files uploaded for field %q", "avatar")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrValidationFailed)
		assert.Equal(t, `no files uploaded for field "avatar"`, err.Error())
	})

	t.Run("wrapped errors expose their cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk full")
		err := wrapError(ErrInternal, cause, "failed to persist file")

		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to persist file: disk full", err.Error())
	})

	t.Run("sentinels do not match each other", func(t *testing.T) {
		t.Parallel()

		assert.NotErrorIs(t, ErrConflict, ErrNotFound)
		assert.NotErrorIs(t, ErrTooLarge, ErrMalformedRequest)
	})

	t.Run("fmt wrapping keeps kind matching", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("save failed: %w", newError(ErrConflict, "file exists"))
		assert.ErrorIs(t, err, ErrConflict)

		var typed *Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, "conflict", typed.Kind)
	})
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    *Error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidationFailed, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrUnsupportedProvider, http.StatusBadRequest},
		{ErrProviderConfigInvalid, http.StatusBadRequest},
		{ErrTooLarge, http.StatusRequestEntityTooLarge},
		{ErrMalformedRequest, http.StatusBadRequest},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}

	t.Run("zero status defaults to 500", func(t *testing.T) {
		t.Parallel()
		e := &Error{Kind: "custom"}
		assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
	})

	t.Run("foreign errors map to 500", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	})
}

func TestAsPipelineError(t *testing.T) {
	t.Parallel()

	t.Run("typed errors pass through", func(t *testing.T) {
		t.Parallel()

		orig := newError(ErrTooLarge, "part exceeds 1MB")
		got := asPipelineError(fmt.Errorf("ingest: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("foreign errors become internal", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset")
		got := asPipelineError(cause)
		assert.ErrorIs(t, got, ErrInternal)
		assert.ErrorIs(t, got, cause)
	})
}
