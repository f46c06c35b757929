package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/mage/pkg/bootstrap"
	"github.com/arthur-debert/mage/pkg/config"
	"github.com/arthur-debert/mage/pkg/filesystem"
	"github.com/arthur-debert/mage/pkg/linker"
	"github.com/arthur-debert/mage/pkg/manifest"
	"github.com/arthur-debert/mage/pkg/output"
	"github.com/arthur-debert/mage/pkg/paths"
	"github.com/arthur-debert/mage/pkg/repo"
)

var clonePathFlag string

func init() {
	linkCmd.Flags().StringVarP(&clonePathFlag, "path", "p", "", "Where the dotfiles repository is cloned (default from config)")
	cloneCmd.Flags().StringVarP(&clonePathFlag, "path", "p", "", "Where the dotfiles repository is cloned (default from config)")

	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(initCmd)
}

// runOptions assembles bootstrap options from config plus CLI arguments.
// origin falls back to the configured clone path, so a bare `mage link`
// works against an existing clone.
func runOptions(origin string) (bootstrap.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return bootstrap.Options{}, err
	}

	clonePath := cfg.ClonePath
	if clonePathFlag != "" {
		clonePath = clonePathFlag
	}
	if origin == "" {
		origin = clonePath
	}

	return bootstrap.Options{
		Origin:       origin,
		ClonePath:    clonePath,
		InstallCheck: linker.NewInstallCheck(cfg.InstallCheckTimeout),
		CloneTimeout: cfg.CloneTimeout,
	}, nil
}

var linkCmd = &cobra.Command{
	Use:   "link [origin]",
	Short: "Clone (if needed) and symlink dotfiles into place",
	Long: `Link ensures the dotfiles repository is present locally, reads its
magefile and creates a symlink for each entry. Origins may be a local
directory, a git URL, or a GitHub user/repo shorthand. Without an origin,
the configured clone path is used.

Targets that already exist are skipped, never overwritten. Per-entry
failures are reported but do not affect the exit code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin := ""
		if len(args) > 0 {
			origin = args[0]
		}

		opts, err := runOptions(origin)
		if err != nil {
			return err
		}

		report, err := bootstrap.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.RenderReport(report))
		return nil
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <origin>",
	Short: "Clone the dotfiles repository without linking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(args[0])
		if err != nil {
			return err
		}

		resolver, err := paths.NewResolver("")
		if err != nil {
			return err
		}
		origin, err := repo.ParseOrigin(filesystem.NewOS(), opts.Origin, opts.ClonePath, resolver)
		if err != nil {
			return err
		}
		if origin.Kind != repo.OriginRepository {
			return fmt.Errorf("origin %q is not a repository", args[0])
		}

		if err := repo.NewGitCloner().Clone(cmd.Context(), origin.URL, origin.Dir); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s into %s\n", origin.URL, origin.Dir)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove symlinks created from the magefile",
	Long: `Clean removes each manifest entry's target when it is a symlink
pointing into the repository. Regular files and foreign symlinks are
left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin := ""
		if len(args) > 0 {
			origin = args[0]
		}

		opts, err := runOptions(origin)
		if err != nil {
			return err
		}

		results, err := bootstrap.Clean(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.RenderCleanResults(results))
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Pull the repository, then clean and relink",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin := ""
		if len(args) > 0 {
			origin = args[0]
		}

		opts, err := runOptions(origin)
		if err != nil {
			return err
		}

		report, err := bootstrap.Sync(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.RenderReport(report))
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter magefile.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		path, err := manifest.WriteStarter(filesystem.NewOS(), dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}
