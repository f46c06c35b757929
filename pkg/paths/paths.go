// Package paths resolves manifest paths: "~"-prefixed targets against the
// user's home directory and entry keys against the repository root. All
// inputs are explicit parameters so tests can inject fake homes and roots.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mage/pkg/errors"
)

// Resolver performs pure path computation for the linker.
type Resolver struct {
	home string
}

// NewResolver creates a Resolver using the given home directory. An empty
// home defers to HOME (preferred for testability) or os.UserHomeDir.
func NewResolver(home string) (*Resolver, error) {
	if home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidPath, "cannot determine home directory")
		}
		if home == "" {
			return nil, errors.New(errors.ErrInvalidPath, "cannot determine home directory")
		}
	}
	if !filepath.IsAbs(home) {
		return nil, errors.Newf(errors.ErrInvalidPath, "home directory %q is not absolute", home)
	}
	return &Resolver{home: home}, nil
}

// Home returns the home directory the resolver expands "~" against.
func (r *Resolver) Home() string {
	return r.home
}

// ResolveTarget expands a leading "~" in raw to the home directory and
// returns an absolute path. Raw paths without "~" must already be absolute.
func (r *Resolver) ResolveTarget(raw string) (string, error) {
	if raw == "" {
		return "", errors.New(errors.ErrInvalidPath, "target path is empty")
	}

	expanded := raw
	if raw == "~" {
		expanded = r.home
	} else if strings.HasPrefix(raw, "~/") {
		expanded = filepath.Join(r.home, raw[2:])
	} else if strings.HasPrefix(raw, "~") {
		// ~user expansion is not supported by the manifest format.
		return "", errors.Newf(errors.ErrInvalidPath, "unsupported home reference in %q", raw)
	}

	expanded = filepath.Clean(expanded)
	if !filepath.IsAbs(expanded) {
		return "", errors.Newf(errors.ErrInvalidPath, "target path %q is not absolute after expansion", raw)
	}
	return expanded, nil
}

// ResolveSource joins repoRoot with key interpreted as a relative path.
// Keys may name nested subpaths ("nested/.bashrc") but must not escape the
// repository root.
func ResolveSource(repoRoot, key string) (string, error) {
	if key == "" {
		return "", errors.New(errors.ErrInvalidPath, "manifest key is empty")
	}
	if !filepath.IsAbs(repoRoot) {
		return "", errors.Newf(errors.ErrInvalidPath, "repository root %q is not absolute", repoRoot)
	}
	if filepath.IsAbs(key) {
		return "", errors.Newf(errors.ErrInvalidPath, "manifest key %q must be relative", key)
	}

	root := filepath.Clean(repoRoot)
	joined := filepath.Join(root, key)

	// filepath.Join cleans ".." segments, so an escaping key resolves to
	// a path outside root and Rel reports it with a leading "..".
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidPath, "manifest key %q escapes the repository root", key).
			WithDetail("repoRoot", root)
	}
	return joined, nil
}
