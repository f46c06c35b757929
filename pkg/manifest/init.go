package manifest

import (
	"path/filepath"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/types"
)

const starterContent = `["example.config"]
target_path = "~/.config/example.config"
`

// WriteStarter creates a starter magefile.toml in dir. It refuses to
// overwrite an existing magefile of any format.
func WriteStarter(fs types.FS, dir string) (string, error) {
	if existing, err := Find(fs, dir); err == nil {
		return "", errors.Newf(errors.ErrFileCreate, "magefile already exists at %s", existing)
	}

	path := filepath.Join(dir, DefaultBasename+".toml")
	if err := fs.WriteFile(path, []byte(starterContent), 0o644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "failed to write %s", path)
	}
	return path, nil
}
