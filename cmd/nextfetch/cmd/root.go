package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bifrost2409/nextfetch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the dataset release. Unreleased builds carry a "+" suffix and
// share the development storage directory.
var Version = "0.1.0+alpha"

const (
	defaultBaseURL  = "https://project.esss.dk/nextcloud"
	defaultFolder   = "Diq9n3kITaEBtq7"
	defaultRegistry = "pooch-registry.txt"
)

var rootCmd = &cobra.Command{
	Use:           "nextfetch",
	Short:         "Fetch verified data files from a Nextcloud share",
	Long:          "Download versioned data files listed in a sha256 registry, and build registries for local directory trees.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

// Execute runs the root command. An interrupt cancels the command context so
// in-flight downloads clean up their temp files before exiting.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("error", "err", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/nextfetch/config.yaml)")
	flags.String("raw-data-dir", "", "directory data files are fetched into (default: ~/.local/share/nextfetch/raw)")
	flags.String("meta-data-dir", "", "directory holding registry files (default: ~/.local/share/nextfetch/meta)")
	flags.String("registry", "", "registry file name, relative to the metadata dir (default: "+defaultRegistry+")")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("raw_data_dir", flags.Lookup("raw-data-dir"))
	viper.BindPFlag("meta_data_dir", flags.Lookup("meta-data-dir"))
	viper.BindPFlag("registry", flags.Lookup("registry"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NEXTFETCH")
	viper.AutomaticEnv()
	viper.SetDefault("raw_data_dir", filepath.Join(dataDir(), "raw"))
	viper.SetDefault("meta_data_dir", filepath.Join(dataDir(), "meta"))
	viper.SetDefault("registry", defaultRegistry)
	viper.SetDefault("base_url", defaultBaseURL)
	viper.SetDefault("folder", defaultFolder)
	viper.SetDefault("share_root", "")
	viper.SetDefault("version", Version)
	viper.SetDefault("version_dev", nextfetch.DefaultDevVersion)
	viper.SetDefault("jobs", 1)

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("loaded config", "path", viper.ConfigFileUsed())
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nextfetch")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "nextfetch")
	}
	return ".nextfetch"
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nextfetch")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "nextfetch")
	}
	return ".nextfetch"
}

func rawDataDir() string  { return viper.GetString("raw_data_dir") }
func metaDataDir() string { return viper.GetString("meta_data_dir") }

// metaPath resolves name against the metadata dir unless it is absolute.
func metaPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(metaDataDir(), name)
}

func registryPath() string {
	return metaPath(viper.GetString("registry"))
}
