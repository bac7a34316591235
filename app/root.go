// Package app implements the main application commands.
package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mineralhub",
	Short: "MineralHub is the backend of a mineral marketplace",
	Long: `MineralHub is the backend of a mineral marketplace. It serves the marketplace API
and lets administrators switch platform features on and off through organization settings.`,
	Args:         cobra.OnlyValidArgs,
	SilenceUsage: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Directory holding main.toml (default ./etc/)")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// loadConfig reads the configuration and initialises the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	if err = logger.Init(cfg.Log); err != nil {
		return errors.Wrap(err, "failed to init logger")
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
