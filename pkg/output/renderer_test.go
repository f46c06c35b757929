package output

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/mage/pkg/types"
)

func init() {
	// Keep assertions free of ANSI escapes.
	pterm.DisableColor()
}

func TestRenderReport(t *testing.T) {
	report := &types.BootstrapReport{
		RepoRoot: "/repo",
		Results: []types.LinkResult{
			{Key: ".bashrc", Status: types.StatusLinked},
			{Key: ".vimrc", Status: types.StatusSkipped, Reason: "target exists"},
			{Key: ".zshrc", Status: types.StatusFailed, Reason: "source missing"},
		},
	}

	out := RenderReport(report)

	assert.Contains(t, out, ".bashrc")
	assert.Contains(t, out, "(target exists)")
	assert.Contains(t, out, "(source missing)")
	assert.Contains(t, out, "1 linked, 1 skipped, 1 failed")
	assert.NotContains(t, out, "Not installed")
}

func TestRenderReport_NotInstalled(t *testing.T) {
	report := &types.BootstrapReport{
		Results: []types.LinkResult{
			{Key: "alacritty", Status: types.StatusLinked, NotInstalled: true},
		},
	}

	out := RenderReport(report)

	assert.Contains(t, out, "Not installed on this system:")
	assert.Contains(t, out, "alacritty")
}

func TestRenderCleanResults(t *testing.T) {
	out := RenderCleanResults([]types.CleanResult{
		{Key: ".bashrc", Status: types.CleanRemoved},
		{Key: ".vimrc", Status: types.CleanSkipped, Reason: "not a symlink"},
	})

	assert.Contains(t, out, ".bashrc")
	assert.Contains(t, out, "(not a symlink)")
	assert.Contains(t, out, "1 symlinks removed")
}
