// Package types holds the shared vocabulary of mage: manifest entries,
// per-entry link outcomes and the filesystem interface the engine runs on.
package types

import (
	"io/fs"
)

// FS is the filesystem surface required by the linker. Implementations
// are the OS filesystem (pkg/filesystem) and an in-memory one for tests
// (pkg/testutil).
type FS interface {
	// Stat follows symlinks; Lstat does not. The linker's existence
	// check must be non-following, so it uses Lstat.
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)

	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink must fail when newname already exists (EEXIST), which is
	// what keeps the non-destructive guarantee race-free.
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Remove(name string) error
}

// ManifestEntry is one record of the magefile: a source path inside the
// repository and the place its symlink should live.
type ManifestEntry struct {
	// Key is the entry's identifier and, in the current manifest format,
	// the source path relative to the repository root. Nested paths such
	// as "nested/.bashrc" are allowed.
	Key string

	// TargetPath is where the symlink goes. A leading "~" is expanded to
	// the user's home directory at resolution time.
	TargetPath string

	// IsInstalledCmd optionally names a shell command whose exit status
	// reports whether the associated program is present. Reporting only;
	// it never gates linking.
	IsInstalledCmd string
}

// LinkStatus is the terminal outcome of one manifest entry.
type LinkStatus string

const (
	StatusLinked  LinkStatus = "linked"
	StatusSkipped LinkStatus = "skipped"
	StatusFailed  LinkStatus = "failed"
)

// LinkResult records what the linker did for one entry.
type LinkResult struct {
	Key    string
	Status LinkStatus

	// Reason explains a skip or failure ("target exists",
	// "source missing", or an OS error string).
	Reason string

	// NotInstalled is set when the entry's is_installed_cmd exited
	// non-zero. Informational only.
	NotInstalled bool
}

// Linked reports whether the entry resulted in a new symlink.
func (r LinkResult) Linked() bool { return r.Status == StatusLinked }

// CleanStatus is the outcome of one entry during a clean run.
type CleanStatus string

const (
	CleanRemoved CleanStatus = "removed"
	CleanSkipped CleanStatus = "skipped"
	CleanFailed  CleanStatus = "failed"
)

// CleanResult records what the cleaner did for one entry.
type CleanResult struct {
	Key    string
	Status CleanStatus
	Reason string
}

// BootstrapReport aggregates the outcome of a bootstrap run for display.
type BootstrapReport struct {
	RepoRoot string
	Results  []LinkResult
}

// Counts returns the number of linked, skipped and failed entries.
func (r *BootstrapReport) Counts() (linked, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusLinked:
			linked++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return linked, skipped, failed
}

// NotInstalled lists entries whose presence probe reported absence.
func (r *BootstrapReport) NotInstalled() []string {
	var out []string
	for _, res := range r.Results {
		if res.NotInstalled {
			out = append(out, res.Key)
		}
	}
	return out
}
