// Package repo handles the dotfiles repository: deciding what a
// user-supplied origin means and shelling out to git for clone and pull.
package repo

import (
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/paths"
	"github.com/arthur-debert/mage/pkg/types"
)

// OriginKind distinguishes a local directory origin from a remote one.
type OriginKind string

const (
	// OriginDirectory means the origin is an existing local directory
	// used as the repository root directly, no clone involved.
	OriginDirectory OriginKind = "directory"

	// OriginRepository means the origin is a git URL to clone.
	OriginRepository OriginKind = "repository"
)

// Origin is a parsed dotfiles origin.
type Origin struct {
	Kind OriginKind

	// Dir is the local repository root: the directory itself for
	// OriginDirectory, the clone destination for OriginRepository.
	Dir string

	// URL is the clone URL, set only for OriginRepository.
	URL string
}

var repoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:[A-Za-z0-9-]+/[A-Za-z0-9-_.]+\.git$`),
	regexp.MustCompile(`^https://github\.com/[A-Za-z0-9-]+/[A-Za-z0-9-_.]+(\.git)?$`),
}

var shorthandPattern = regexp.MustCompile(`^[A-Za-z0-9-]+/[A-Za-z0-9-_.]+$`)

// DefaultClonePath is where remote origins land when no clone path is
// configured.
const DefaultClonePath = "~/.mage"

// ParseOrigin interprets raw as, in order: an existing local directory, a
// full git URL, or a GitHub "user/repo" shorthand (expanded to the ssh
// URL). clonePath is where a remote origin will live locally; both it and
// a directory origin are "~"-expanded through the resolver. Directory
// existence is checked through fs.
func ParseOrigin(fs types.FS, raw, clonePath string, resolver *paths.Resolver) (Origin, error) {
	if raw == "" {
		return Origin{}, errors.New(errors.ErrInvalidOrigin, "origin is empty")
	}
	if clonePath == "" {
		clonePath = DefaultClonePath
	}

	dest, err := resolver.ResolveTarget(clonePath)
	if err != nil {
		return Origin{}, err
	}

	if dir, ok := asDirectory(fs, raw, resolver); ok {
		return Origin{Kind: OriginDirectory, Dir: dir}, nil
	}

	if isRepoURL(raw) {
		return Origin{Kind: OriginRepository, Dir: dest, URL: raw}, nil
	}

	if shorthandPattern.MatchString(raw) {
		// Assume ssh for shorthand origins.
		return Origin{
			Kind: OriginRepository,
			Dir:  dest,
			URL:  "git@github.com:" + raw + ".git",
		}, nil
	}

	return Origin{}, errors.Newf(errors.ErrInvalidOrigin, "origin %q is neither a directory nor a repository URL", raw)
}

func asDirectory(fs types.FS, raw string, resolver *paths.Resolver) (string, bool) {
	expanded := raw
	if resolved, err := resolver.ResolveTarget(raw); err == nil {
		expanded = resolved
	}
	info, err := fs.Stat(expanded)
	if err != nil || !info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", false
	}
	return abs, true
}

func isRepoURL(s string) bool {
	for _, re := range repoURLPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
