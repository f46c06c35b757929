// Package linker is the manifest-driven linking engine. Given a repository
// root and a sequence of manifest entries it creates one symlink per entry,
// skipping any target that already exists. Entries are independent: a
// failure on one never aborts the rest.
package linker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/logging"
	"github.com/arthur-debert/mage/pkg/paths"
	"github.com/arthur-debert/mage/pkg/types"
)

// Linker performs filesystem linking for manifest entries.
type Linker struct {
	fs       types.FS
	resolver *paths.Resolver
	check    InstallCheck
}

// Option configures a Linker.
type Option func(*Linker)

// WithInstallCheck overrides the presence probe used for entries that
// declare is_installed_cmd.
func WithInstallCheck(check InstallCheck) Option {
	return func(l *Linker) {
		l.check = check
	}
}

// New creates a Linker operating on fs, expanding targets through resolver.
func New(fs types.FS, resolver *paths.Resolver, opts ...Option) *Linker {
	l := &Linker{
		fs:       fs,
		resolver: resolver,
		check:    CheckInstalled,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LinkAll processes every entry and returns one LinkResult per entry, in
// order. It only returns an error for call-level misuse: a repository root
// that does not exist. Per-entry problems are absorbed into that entry's
// result.
func (l *Linker) LinkAll(repoRoot string, entries []types.ManifestEntry) ([]types.LinkResult, error) {
	logger := logging.GetLogger("linker")

	if _, err := l.fs.Stat(repoRoot); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoMissing, "repository root %s does not exist", repoRoot)
	}

	results := make([]types.LinkResult, 0, len(entries))
	for _, entry := range entries {
		result := l.linkOne(repoRoot, entry)

		logger.Debug().
			Str("key", entry.Key).
			Str("status", string(result.Status)).
			Str("reason", result.Reason).
			Msg("entry processed")

		results = append(results, result)
	}

	linkedCount, skippedCount, failedCount := (&types.BootstrapReport{Results: results}).Counts()
	logger.Info().
		Int("linked", linkedCount).
		Int("skipped", skippedCount).
		Int("failed", failedCount).
		Msg("linking complete")

	return results, nil
}

// linkOne runs the per-entry state machine: Pending -> Linked | Skipped |
// Failed. Terminal, no retries.
func (l *Linker) linkOne(repoRoot string, entry types.ManifestEntry) types.LinkResult {
	target, err := l.resolver.ResolveTarget(entry.TargetPath)
	if err != nil {
		return failed(entry.Key, err.Error())
	}

	source, err := paths.ResolveSource(repoRoot, entry.Key)
	if err != nil {
		return failed(entry.Key, err.Error())
	}

	// Non-following check: an existing file, directory, symlink or even
	// dangling symlink at the target is never touched.
	if _, err := l.fs.Lstat(target); err == nil {
		return skipped(entry.Key, "target exists")
	}

	if _, err := l.fs.Lstat(source); err != nil {
		return failed(entry.Key, "source missing")
	}

	// The parent must already exist; creating it here would surprise
	// users with new directories.
	if _, err := l.fs.Lstat(filepath.Dir(target)); err != nil {
		return failed(entry.Key, "parent directory missing")
	}

	if err := l.fs.Symlink(source, target); err != nil {
		// Symlink is the atomic create-if-absent step. EEXIST means the
		// target appeared since the check above, which is a skip, not a
		// failure.
		if os.IsExist(err) {
			return skipped(entry.Key, "target exists")
		}
		return failed(entry.Key, err.Error())
	}

	result := types.LinkResult{Key: entry.Key, Status: types.StatusLinked}
	if entry.IsInstalledCmd != "" {
		result.NotInstalled = !l.check(entry.IsInstalledCmd)
	}
	return result
}

// Clean removes symlinks previously created from the manifest: for each
// entry whose target is a symlink pointing into the repository root, the
// link is removed. Anything else is left alone.
func (l *Linker) Clean(repoRoot string, entries []types.ManifestEntry) ([]types.CleanResult, error) {
	logger := logging.GetLogger("linker")

	if _, err := l.fs.Stat(repoRoot); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoMissing, "repository root %s does not exist", repoRoot)
	}

	results := make([]types.CleanResult, 0, len(entries))
	for _, entry := range entries {
		result := l.cleanOne(repoRoot, entry)

		logger.Debug().
			Str("key", entry.Key).
			Str("status", string(result.Status)).
			Str("reason", result.Reason).
			Msg("entry cleaned")

		results = append(results, result)
	}
	return results, nil
}

func (l *Linker) cleanOne(repoRoot string, entry types.ManifestEntry) types.CleanResult {
	target, err := l.resolver.ResolveTarget(entry.TargetPath)
	if err != nil {
		return types.CleanResult{Key: entry.Key, Status: types.CleanFailed, Reason: err.Error()}
	}

	if _, err := l.fs.Lstat(target); err != nil {
		return types.CleanResult{Key: entry.Key, Status: types.CleanSkipped, Reason: "target missing"}
	}

	dest, err := l.fs.Readlink(target)
	if err != nil {
		// Not a symlink: never remove.
		return types.CleanResult{Key: entry.Key, Status: types.CleanSkipped, Reason: "not a symlink"}
	}

	if !within(repoRoot, dest) {
		return types.CleanResult{Key: entry.Key, Status: types.CleanSkipped, Reason: "links outside the repository"}
	}

	if err := l.fs.Remove(target); err != nil {
		return types.CleanResult{Key: entry.Key, Status: types.CleanFailed, Reason: err.Error()}
	}
	return types.CleanResult{Key: entry.Key, Status: types.CleanRemoved}
}

func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func failed(key, reason string) types.LinkResult {
	return types.LinkResult{Key: key, Status: types.StatusFailed, Reason: reason}
}

func skipped(key, reason string) types.LinkResult {
	return types.LinkResult{Key: key, Status: types.StatusSkipped, Reason: reason}
}
