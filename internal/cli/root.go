package cli

import (
	"os"

	"github.com/spf13/cobra"

	"wpstarter.dev/wpstarter/internal/config"
	"wpstarter.dev/wpstarter/internal/runtime"
	"wpstarter.dev/wpstarter/internal/tui"
)

type rootFlags struct {
	configPath string
	debug      bool
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	flags := &rootFlags{}
	var splog *tui.Splog

	rootCmd := &cobra.Command{
		Use:   "wpstarter",
		Short: "wpstarter scaffolds a WordPress project with a starter theme",
		Long: `wpstarter scaffolds a WordPress project with a starter theme.

It downloads the latest WordPress release, writes wp-config.php with fresh
secret keys, installs the starter theme under the name you choose, creates
the database and builds the theme assets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.debug {
				_ = os.Setenv("DEBUG", "1")
			}
			tui.ConfigureColor()

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			runID := runtime.NewRunID()
			splog, err = tui.NewSplogWithConfig(tui.GetLogFilePath(), runID)
			if err != nil {
				splog = tui.NewSplog()
				splog.Debug("File logging disabled: %v", err)
			}

			rc := runtime.NewContext(cmd.Context(), cfg, splog)
			rc.RunID = runID
			cmd.SetContext(runtime.WithContext(cmd.Context(), rc))

			splog.Record("command started", "command", cmd.CommandPath(), "version", version)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if splog != nil {
				_ = splog.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Print debug output")

	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
