// Package cli provides the Cobra command tree for the scriptbundle CLI.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scriptbundle/scriptbundle/internal/config"
)

var (
	// Version information, set via ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	cfgFile string
	debug   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scriptbundle",
	Short: "scriptbundle bundles a JS/TS entrypoint into a single frida-compile artifact",
	Long: `scriptbundle walks a project's import graph from a single entrypoint,
compiles and shims it, and serializes the result into one self-describing
artifact file suitable for loading into a sandboxed runtime.

Get started:
  scriptbundle build    Bundle once and write the artifact
  scriptbundle watch    Bundle on every source change`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default: ./scriptbundle.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	viper.SetEnvPrefix("SCRIPTBUNDLE")
	viper.AutomaticEnv()
	_ = viper.BindEnv("debug")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func loadConfig() error {
	var paths []string
	if cfgFile != "" {
		paths = []string{cfgFile}
	}
	loaded, err := config.Load(paths...)
	if err != nil {
		return err
	}
	cfg = loaded

	if viper.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}

// GetConfig returns the loaded configuration for use by subcommands.
func GetConfig() *config.Config {
	return cfg
}

// IsDebug reports whether debug logging was requested.
func IsDebug() bool {
	return debug
}
