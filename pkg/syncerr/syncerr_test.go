package syncerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	t.Run("without path", func(t *testing.T) {
		e := New(Transport, "dial failed")
		assert.Equal(t, "Transport: dial failed", e.Error())
	})

	t.Run("with path", func(t *testing.T) {
		e := WithPath(NotFound, "/data/a.txt", "not found")
		assert.Equal(t, "NotFound: not found (path: /data/a.txt)", e.Error())
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(FilesystemIO, "/data/a.txt", cause)

	assert.ErrorIs(t, e, cause)
	assert.Equal(t, FilesystemIO, e.Code)
}

func TestCodeOf(t *testing.T) {
	e := PermissionDeniedError()
	assert.Equal(t, PermissionDenied, CodeOf(e))
	assert.Equal(t, Code(0), CodeOf(errors.New("plain")))
}

func TestIs(t *testing.T) {
	e := NotFoundError("/x")
	assert.True(t, Is(e, NotFound))
	assert.False(t, Is(e, PermissionDenied))

	wrapped := Wrap(CanonicalizationFailure, "/x", e)
	assert.True(t, Is(wrapped, CanonicalizationFailure))
}

func TestCodeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown(99)", Code(99).String())
}
