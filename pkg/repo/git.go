package repo

import (
	"context"
	"os"
	"os/exec"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/logging"
)

// Cloner is the clone collaborator the orchestrator delegates to. It is
// an interface so bootstrap tests can substitute a fake.
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
	Pull(ctx context.Context, dir string) error
}

// GitCloner runs the system git binary.
type GitCloner struct{}

// NewGitCloner creates a Cloner backed by the git CLI.
func NewGitCloner() *GitCloner {
	return &GitCloner{}
}

// Clone runs `git clone url dest`. It refuses to run when dest already
// exists; the caller decides whether an existing clone is acceptable.
func (g *GitCloner) Clone(ctx context.Context, url, dest string) error {
	logger := logging.GetLogger("repo.git")

	if _, err := os.Stat(dest); err == nil {
		return errors.Newf(errors.ErrCloneFailed, "clone destination %s already exists", dest)
	}

	logger.Debug().Str("url", url).Str("dest", dest).Msg("cloning repository")

	cmd := exec.CommandContext(ctx, "git", "clone", url, dest)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrCloneFailed, "failed to clone %s", url).
			WithDetail("dest", dest)
	}

	logger.Debug().Str("dest", dest).Msg("clone complete")
	return nil
}

// Pull runs `git pull` inside dir.
func (g *GitCloner) Pull(ctx context.Context, dir string) error {
	logger := logging.GetLogger("repo.git")
	logger.Debug().Str("dir", dir).Msg("pulling repository")

	cmd := exec.CommandContext(ctx, "git", "pull")
	cmd.Dir = dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrPullFailed, "git pull failed in %s", dir)
	}
	return nil
}
