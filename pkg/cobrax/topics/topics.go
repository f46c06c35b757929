// Package topics serves long-form help documents, rendered as markdown
// for the terminal.
package topics

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed docs/*.md
var docs embed.FS

// List returns the available topic names.
func List() []string {
	entries, err := docs.ReadDir("docs")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Render returns the rendered content of a topic.
func Render(name string) (string, error) {
	content, err := docs.ReadFile("docs/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q (available: %s)", name, strings.Join(List(), ", "))
	}
	return NewGlamourRenderer().Render(string(content)), nil
}
