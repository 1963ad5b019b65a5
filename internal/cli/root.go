// Package cli implements the casia command line interface.
package cli

import (
	"fmt"

	"github.com/lucaskjaero/casia/internal/config"
	"github.com/lucaskjaero/casia/internal/dataset"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	rootConfigPath string
	rootCacheDir   string
)

var rootCmd = &cobra.Command{
	Use:   "casia",
	Short: "Download and decode the CASIA handwriting datasets",
	Long: `casia manages the CASIA offline handwriting datasets (HWDB/GNT).

It downloads the dataset archives, extracts them into a local cache, and
decodes the GNT record streams into (image, label) pairs.

Typical flow:
  casia fetch                      # download and extract all datasets
  casia stats HWDB1.1tst_gnt       # record and label counts
  casia export HWDB1.1tst_gnt -o ./train   # PNG per character, one dir per label

Configuration lives in ~/.casia/config.yaml (see "casia config").`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the casia version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "casia %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "config file path (default: ~/.casia/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootCacheDir, "cache-dir", "", "dataset cache directory (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration, honoring the global flags.
func loadConfig() (*config.Config, error) {
	var loader *config.Loader
	if rootConfigPath != "" {
		loader = config.NewLoaderWithPath(rootConfigPath)
	} else {
		var err error
		loader, err = config.NewLoader()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if rootCacheDir != "" {
		cfg.CacheDir = rootCacheDir
	}
	return cfg, nil
}

// openStore returns the local dataset store for the configured cache dir.
func openStore(cfg *config.Config) (*dataset.Store, error) {
	dir, err := cfg.EffectiveCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}
	return dataset.NewStore(dir), nil
}

// selectDatasets resolves command arguments to catalog entries. With no
// arguments it falls back to the configured selection, then to the full
// catalog.
func selectDatasets(cfg *config.Config, args []string) ([]dataset.Descriptor, error) {
	names := args
	if len(names) == 0 {
		names = cfg.Datasets
	}
	if len(names) == 0 {
		return dataset.GNTDatasets(), nil
	}

	out := make([]dataset.Descriptor, 0, len(names))
	for _, name := range names {
		d, ok := dataset.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown dataset %q (see \"casia datasets\")", name)
		}
		out = append(out, d)
	}
	return out, nil
}
