// Package bootstrap sequences a full run: make sure the repository is
// present locally, parse its manifest, then hand the entries to the
// linker. Per-entry problems end up in the report; anything that breaks
// the run's preconditions (bad origin, failed clone, bad manifest) is
// returned as an error.
package bootstrap

import (
	"context"
	"time"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/filesystem"
	"github.com/arthur-debert/mage/pkg/linker"
	"github.com/arthur-debert/mage/pkg/logging"
	"github.com/arthur-debert/mage/pkg/manifest"
	"github.com/arthur-debert/mage/pkg/paths"
	"github.com/arthur-debert/mage/pkg/repo"
	"github.com/arthur-debert/mage/pkg/types"
)

// Options configures a bootstrap run. Zero values pick production
// defaults; tests inject fakes.
type Options struct {
	// Origin is the user-supplied dotfiles origin: an existing local
	// directory, a git URL, or a GitHub user/repo shorthand.
	Origin string

	// ClonePath is where a remote origin is cloned, "~"-expandable.
	ClonePath string

	// FS defaults to the OS filesystem.
	FS types.FS

	// Cloner defaults to the git CLI.
	Cloner repo.Cloner

	// Resolver defaults to one built from the current user's home.
	Resolver *paths.Resolver

	// InstallCheck defaults to the sh -c probe.
	InstallCheck linker.InstallCheck

	// CloneTimeout bounds the clone subprocess; zero means no limit.
	CloneTimeout time.Duration
}

func (o *Options) defaults() error {
	if o.FS == nil {
		o.FS = filesystem.NewOS()
	}
	if o.Cloner == nil {
		o.Cloner = repo.NewGitCloner()
	}
	if o.Resolver == nil {
		resolver, err := paths.NewResolver("")
		if err != nil {
			return err
		}
		o.Resolver = resolver
	}
	if o.InstallCheck == nil {
		o.InstallCheck = linker.CheckInstalled
	}
	return nil
}

// Run ensures the repository is present, parses its manifest and links
// all entries.
func Run(ctx context.Context, opts Options) (*types.BootstrapReport, error) {
	logger := logging.GetLogger("bootstrap")

	if err := opts.defaults(); err != nil {
		return nil, err
	}

	root, err := ensureRepo(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries, err := manifest.Load(opts.FS, root)
	if err != nil {
		return nil, err
	}

	lnk := linker.New(opts.FS, opts.Resolver, linker.WithInstallCheck(opts.InstallCheck))
	results, err := lnk.LinkAll(root, entries)
	if err != nil {
		return nil, err
	}

	linkedCount, skippedCount, failedCount := (&types.BootstrapReport{Results: results}).Counts()
	logger.Info().
		Str("root", root).
		Int("linked", linkedCount).
		Int("skipped", skippedCount).
		Int("failed", failedCount).
		Msg("bootstrap complete")

	return &types.BootstrapReport{RepoRoot: root, Results: results}, nil
}

// Clean removes manifest symlinks that point into the repository.
func Clean(ctx context.Context, opts Options) ([]types.CleanResult, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	root, err := localRoot(opts)
	if err != nil {
		return nil, err
	}

	entries, err := manifest.Load(opts.FS, root)
	if err != nil {
		return nil, err
	}

	lnk := linker.New(opts.FS, opts.Resolver)
	return lnk.Clean(root, entries)
}

// Sync pulls the repository, cleans stale links, then relinks.
func Sync(ctx context.Context, opts Options) (*types.BootstrapReport, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	root, err := localRoot(opts)
	if err != nil {
		return nil, err
	}

	if err := opts.Cloner.Pull(ctx, root); err != nil {
		return nil, err
	}

	if _, err := Clean(ctx, opts); err != nil {
		return nil, err
	}

	return Run(ctx, opts)
}

// ensureRepo resolves the origin and clones it when needed. An already
// existing clone destination is used as-is: the non-destructive policy
// extends to the repository location itself.
func ensureRepo(ctx context.Context, opts Options) (string, error) {
	logger := logging.GetLogger("bootstrap")

	origin, err := repo.ParseOrigin(opts.FS, opts.Origin, opts.ClonePath, opts.Resolver)
	if err != nil {
		return "", err
	}

	if origin.Kind == repo.OriginDirectory {
		return origin.Dir, nil
	}

	if _, err := opts.FS.Stat(origin.Dir); err == nil {
		logger.Debug().Str("dest", origin.Dir).Msg("clone destination exists, skipping clone")
		return origin.Dir, nil
	}

	cloneCtx := ctx
	if opts.CloneTimeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, opts.CloneTimeout)
		defer cancel()
	}

	if err := opts.Cloner.Clone(cloneCtx, origin.URL, origin.Dir); err != nil {
		return "", err
	}
	return origin.Dir, nil
}

// localRoot resolves the origin for operations that require an existing
// local repository (clean, sync).
func localRoot(opts Options) (string, error) {
	origin, err := repo.ParseOrigin(opts.FS, opts.Origin, opts.ClonePath, opts.Resolver)
	if err != nil {
		return "", err
	}

	if _, err := opts.FS.Stat(origin.Dir); err != nil {
		return "", errors.Wrapf(err, errors.ErrRepoMissing, "repository %s does not exist", origin.Dir)
	}
	return origin.Dir, nil
}
