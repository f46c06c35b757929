package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrManifestNotFound, "no magefile found")

	assert.Equal(t, ErrManifestNotFound, err.Code)
	assert.Equal(t, "[MANIFEST_NOT_FOUND] no magefile found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrapf(cause, ErrFileAccess, "reading %s", "/etc/shadow")

	assert.Equal(t, "[FILE_ACCESS] reading /etc/shadow: permission denied", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "never happens"))
}

func TestIs_MatchesByCode(t *testing.T) {
	inner := New(ErrRepoMissing, "gone")
	wrapped := fmt.Errorf("running link: %w", inner)

	assert.True(t, stderrors.Is(wrapped, New(ErrRepoMissing, "anything")))
	assert.False(t, stderrors.Is(wrapped, New(ErrCloneFailed, "anything")))
}

func TestIsErrorCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrInvalidOrigin, "bad origin"))

	assert.True(t, IsErrorCode(err, ErrInvalidOrigin))
	assert.False(t, IsErrorCode(err, ErrInvalidPath))
	assert.False(t, IsErrorCode(stderrors.New("plain"), ErrInvalidOrigin))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrSymlinkCreate, GetErrorCode(New(ErrSymlinkCreate, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrManifestInvalid, "bad entry").WithDetail("key", ".bashrc")

	require.Contains(t, err.Details, "key")
	assert.Equal(t, ".bashrc", err.Details["key"])
}
