package testutil

import (
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_WriteAndRead(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/repo", 0o755))
	require.NoError(t, memFS.WriteFile("/repo/file", []byte("hello"), 0o644))

	data, err := memFS.ReadFile("/repo/file")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	info, err := memFS.Stat("/repo/file")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, int64(5), info.Size())
}

func TestMemoryFS_WriteRequiresParent(t *testing.T) {
	memFS := NewMemoryFS()

	err := memFS.WriteFile("/nowhere/file", []byte("x"), 0o644)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryFS_SymlinkSemantics(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/repo", 0o755))
	require.NoError(t, memFS.MkdirAll("/home", 0o755))
	require.NoError(t, memFS.WriteFile("/repo/file", []byte("content"), 0o644))

	require.NoError(t, memFS.Symlink("/repo/file", "/home/link"))

	// Lstat sees the link itself, Stat follows it.
	info, err := memFS.Lstat("/home/link")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&fs.ModeSymlink)

	followed, err := memFS.Stat("/home/link")
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), followed.Size())

	dest, err := memFS.Readlink("/home/link")
	require.NoError(t, err)
	assert.Equal(t, "/repo/file", dest)

	// ReadFile follows the link too.
	data, err := memFS.ReadFile("/home/link")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestMemoryFS_SymlinkExistingTarget(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/home", 0o755))
	require.NoError(t, memFS.WriteFile("/home/file", []byte("keep me"), 0o644))

	err := memFS.Symlink("/repo/file", "/home/file")
	require.Error(t, err)
	// os.Symlink reports EEXIST; callers branch on os.IsExist.
	assert.True(t, os.IsExist(err))
}

func TestMemoryFS_SymlinkRequiresParent(t *testing.T) {
	memFS := NewMemoryFS()

	err := memFS.Symlink("/repo/file", "/nowhere/link")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryFS_DanglingSymlink(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/home", 0o755))
	require.NoError(t, memFS.Symlink("/gone", "/home/link"))

	_, err := memFS.Lstat("/home/link")
	assert.NoError(t, err)

	_, err = memFS.Stat("/home/link")
	assert.Error(t, err)
}

func TestMemoryFS_ReadDirSorted(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/repo/nested", 0o755))
	require.NoError(t, memFS.WriteFile("/repo/b", nil, 0o644))
	require.NoError(t, memFS.WriteFile("/repo/a", nil, 0o644))

	entries, err := memFS.ReadDir("/repo")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name())
	assert.Equal(t, "b", entries[1].Name())
	assert.Equal(t, "nested", entries[2].Name())
	assert.True(t, entries[2].IsDir())
}

func TestMemoryFS_Remove(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/home", 0o755))
	require.NoError(t, memFS.WriteFile("/home/file", nil, 0o644))

	require.NoError(t, memFS.Remove("/home/file"))

	_, err := memFS.Lstat("/home/file")
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, memFS.Remove("/home/file"))
}

func TestMemoryFS_InjectError(t *testing.T) {
	memFS := NewMemoryFS()
	require.NoError(t, memFS.MkdirAll("/home", 0o755))
	memFS.InjectError("/home/file", fs.ErrPermission)

	err := memFS.WriteFile("/home/file", nil, 0o644)
	require.Error(t, err)
	assert.True(t, os.IsPermission(err))
}
