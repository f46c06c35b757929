package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mage/pkg/types"
)

// MustWriteFile writes a file, creating parent directories.
func MustWriteFile(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, fs.WriteFile(path, []byte(content), 0o644))
}

// RequireSymlink asserts that path is a symlink pointing at wantDest.
func RequireSymlink(t *testing.T, fs types.FS, path, wantDest string) {
	t.Helper()
	dest, err := fs.Readlink(path)
	require.NoError(t, err, "expected %s to be a symlink", path)
	require.Equal(t, wantDest, dest)
}

// RequireNotExist asserts that nothing exists at path, symlinks included.
func RequireNotExist(t *testing.T, fs types.FS, path string) {
	t.Helper()
	_, err := fs.Lstat(path)
	require.Error(t, err, "expected %s to not exist", path)
}
