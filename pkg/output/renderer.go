// Package output renders run results for the terminal using pterm.
package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/mage/pkg/types"
)

var (
	linkedStyle  = pterm.NewStyle(pterm.FgGreen)
	skippedStyle = pterm.NewStyle(pterm.FgYellow)
	failedStyle  = pterm.NewStyle(pterm.FgRed)
	mutedStyle   = pterm.NewStyle(pterm.FgGray)
)

// RenderReport renders per-entry outcomes plus a summary line.
func RenderReport(report *types.BootstrapReport) string {
	var b strings.Builder

	for _, res := range report.Results {
		b.WriteString(renderResult(res) + "\n")
	}

	linked, skipped, failed := report.Counts()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s linked, %s skipped, %s failed\n",
		linkedStyle.Sprintf("%d", linked),
		skippedStyle.Sprintf("%d", skipped),
		failedStyle.Sprintf("%d", failed)))

	if notInstalled := report.NotInstalled(); len(notInstalled) > 0 {
		b.WriteString("\n" + pterm.Warning.Sprint("Not installed on this system:") + "\n")
		for _, name := range notInstalled {
			b.WriteString("  " + name + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderResult(res types.LinkResult) string {
	switch res.Status {
	case types.StatusLinked:
		return fmt.Sprintf("%s %s", linkedStyle.Sprint("✓"), res.Key)
	case types.StatusSkipped:
		return fmt.Sprintf("%s %s %s", skippedStyle.Sprint("-"), res.Key, mutedStyle.Sprintf("(%s)", res.Reason))
	default:
		return fmt.Sprintf("%s %s %s", failedStyle.Sprint("✗"), res.Key, mutedStyle.Sprintf("(%s)", res.Reason))
	}
}

// RenderCleanResults renders the outcome of a clean run.
func RenderCleanResults(results []types.CleanResult) string {
	var b strings.Builder

	removed := 0
	for _, res := range results {
		switch res.Status {
		case types.CleanRemoved:
			removed++
			b.WriteString(fmt.Sprintf("%s %s\n", linkedStyle.Sprint("✓"), res.Key))
		case types.CleanSkipped:
			b.WriteString(fmt.Sprintf("%s %s %s\n", skippedStyle.Sprint("-"), res.Key, mutedStyle.Sprintf("(%s)", res.Reason)))
		default:
			b.WriteString(fmt.Sprintf("%s %s %s\n", failedStyle.Sprint("✗"), res.Key, mutedStyle.Sprintf("(%s)", res.Reason)))
		}
	}

	b.WriteString("\n" + fmt.Sprintf("%s symlinks removed", linkedStyle.Sprintf("%d", removed)))
	return b.String()
}
