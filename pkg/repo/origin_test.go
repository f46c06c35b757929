package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/filesystem"
	"github.com/arthur-debert/mage/pkg/paths"
	"github.com/arthur-debert/mage/pkg/testutil"
)

func testResolver(t *testing.T) *paths.Resolver {
	t.Helper()
	resolver, err := paths.NewResolver(t.TempDir())
	require.NoError(t, err)
	return resolver
}

func TestParseOrigin_Directory(t *testing.T) {
	resolver := testResolver(t)
	dir := t.TempDir()

	origin, err := ParseOrigin(filesystem.NewOS(), dir, "", resolver)
	require.NoError(t, err)

	assert.Equal(t, OriginDirectory, origin.Kind)
	assert.Equal(t, dir, origin.Dir)
	assert.Empty(t, origin.URL)
}

func TestParseOrigin_TildeDirectory(t *testing.T) {
	resolver := testResolver(t)

	origin, err := ParseOrigin(filesystem.NewOS(), "~", "", resolver)
	require.NoError(t, err)
	assert.Equal(t, OriginDirectory, origin.Kind)
	assert.Equal(t, resolver.Home(), origin.Dir)
}

func TestParseOrigin_RepositoryURLs(t *testing.T) {
	resolver := testResolver(t)

	tests := []struct {
		name        string
		raw         string
		expectedURL string
	}{
		{
			name:        "https url",
			raw:         "https://github.com/test/test-repo.git",
			expectedURL: "https://github.com/test/test-repo.git",
		},
		{
			name:        "https url without suffix",
			raw:         "https://github.com/test/test-repo",
			expectedURL: "https://github.com/test/test-repo",
		},
		{
			name:        "ssh url",
			raw:         "git@github.com:test/test-repo.git",
			expectedURL: "git@github.com:test/test-repo.git",
		},
		{
			name:        "github shorthand assumes ssh",
			raw:         "test/test-repo",
			expectedURL: "git@github.com:test/test-repo.git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, err := ParseOrigin(filesystem.NewOS(), tt.raw, "~/.mage", resolver)
			require.NoError(t, err)

			assert.Equal(t, OriginRepository, origin.Kind)
			assert.Equal(t, tt.expectedURL, origin.URL)
			assert.Equal(t, resolver.Home()+"/.mage", origin.Dir)
		})
	}
}

func TestParseOrigin_Invalid(t *testing.T) {
	resolver := testResolver(t)

	for _, raw := range []string{"", "asdf", "git@something", "/does/not/exist"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseOrigin(filesystem.NewOS(), raw, "", resolver)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOrigin))
		})
	}
}

func TestParseOrigin_ShorthandPrefersExistingDirectory(t *testing.T) {
	resolver := testResolver(t)

	// A relative path that exists wins over the shorthand reading.
	origin, err := ParseOrigin(filesystem.NewOS(), ".", "", resolver)
	require.NoError(t, err)
	assert.Equal(t, OriginDirectory, origin.Kind)
}

func TestParseOrigin_InjectedFS(t *testing.T) {
	resolver := testResolver(t)

	// The directory only exists in the injected filesystem.
	memfs := testutil.NewMemoryFS()
	require.NoError(t, memfs.MkdirAll("/dotfiles", 0o755))

	origin, err := ParseOrigin(memfs, "/dotfiles", "", resolver)
	require.NoError(t, err)
	assert.Equal(t, OriginDirectory, origin.Kind)
	assert.Equal(t, "/dotfiles", origin.Dir)
}
