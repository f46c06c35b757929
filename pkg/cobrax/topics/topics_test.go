package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	names := List()
	assert.Contains(t, names, "manifest")
}

func TestRender(t *testing.T) {
	out, err := Render("manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "magefile")
}

func TestRender_UnknownTopic(t *testing.T) {
	_, err := Render("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown topic")
}
