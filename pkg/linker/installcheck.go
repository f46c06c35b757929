package linker

import (
	"context"
	"os/exec"
	"time"

	"github.com/arthur-debert/mage/pkg/logging"
)

// InstallCheck reports whether a program is present, given the probe
// command from the manifest. True iff the command exits with status zero.
type InstallCheck func(cmd string) bool

// defaultInstallCheckTimeout bounds a presence probe so a hung command
// cannot stall the whole run.
const defaultInstallCheckTimeout = 5 * time.Second

// NewInstallCheck returns an InstallCheck running probes under `sh -c`
// with the given timeout. The result is reporting only and never gates
// linking.
func NewInstallCheck(timeout time.Duration) InstallCheck {
	if timeout <= 0 {
		timeout = defaultInstallCheckTimeout
	}
	return func(command string) bool {
		logger := logging.GetLogger("linker.installcheck")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		err := cmd.Run()

		logger.Trace().Str("cmd", command).Bool("installed", err == nil).Msg("presence probe")
		return err == nil
	}
}

// CheckInstalled is the default InstallCheck with the default timeout.
var CheckInstalled = NewInstallCheck(defaultInstallCheckTimeout)
