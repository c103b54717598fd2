// Command stfsdemo creates a medium, formats it as STFS, mounts it, and
// drives accesses against it through a small set of subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/logging"
	"stfs/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "stfsdemo",
		Short:   "Demonstrate the Shifting Table Filesystem core",
		Version: version.Get().String(),
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional JSON config file (defaults to built-in constants)")

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return cfg, fmt.Errorf("open log file: %w", err)
			}
			logging.Redirect(f)
		}
		return cfg, nil
	}

	root.AddCommand(
		newFormatCmd(loadCfg),
		newAccessCmd(loadCfg),
		newStatCmd(loadCfg),
		newBenchCmd(loadCfg),
		newServeMetricsCmd(loadCfg),
		newInitConfigCmd(),
	)
	return root
}
