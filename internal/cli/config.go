package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucaskjaero/casia/internal/config"
	"github.com/lucaskjaero/casia/internal/dataset"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage casia configuration",
	Long: `Manage the casia configuration.

Config file location: ~/.casia/config.yaml (override with --config)

Subcommands:
  show    print the current configuration
  init    create a default config file
  set     change a configuration value
  path    print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default configuration file at ~/.casia/config.yaml.

Fails if a config file already exists; use --force to overwrite it.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value.

Supported keys:
  cache_dir                 dataset cache directory
  download.attempts         download attempts per archive
  download.timeout_minutes  per-attempt download timeout
  mirrors.<dataset>         replacement download URL for one dataset

Examples:
  casia config set cache_dir /data/casia
  casia config set download.attempts 10
  casia config set mirrors.competition-gnt http://mirror.example/competition-gnt.zip`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := configLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// configLoader honors the global --config flag.
func configLoader() (*config.Loader, error) {
	if rootConfigPath != "" {
		return config.NewLoaderWithPath(rootConfigPath), nil
	}
	return config.NewLoader()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := configLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "config file: (defaults, no file)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	cacheDir, err := cfg.EffectiveCacheDir()
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\neffective cache dir: %s\n", cacheDir)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := configLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", loader.ConfigPath())
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config file created: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	loader, err := configLoader()
	if err != nil {
		return fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch {
	case key == "cache_dir":
		cfg.CacheDir = value

	case key == "download.attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid attempt count: %s", value)
		}
		cfg.Download.Attempts = n

	case key == "download.timeout_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid timeout: %s", value)
		}
		cfg.Download.TimeoutMinutes = n

	case strings.HasPrefix(key, "mirrors.") && key != "mirrors.":
		name := strings.TrimPrefix(key, "mirrors.")
		if _, ok := dataset.ByName(name); !ok {
			return fmt.Errorf("unknown dataset in mirror key: %s", name)
		}
		if cfg.Mirrors == nil {
			cfg.Mirrors = make(map[string]string)
		}
		cfg.Mirrors[name] = value

	default:
		return fmt.Errorf("unknown config key: %s (supported: cache_dir, download.attempts, download.timeout_minutes, mirrors.<dataset>)", key)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "config updated: %s = %s\n", key, value)
	return nil
}
