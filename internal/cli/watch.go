package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scriptbundle/scriptbundle/internal/bundler"
	"github.com/scriptbundle/scriptbundle/internal/watch"
)

var (
	watchRoot         string
	watchEntry        string
	watchOutput       string
	watchMinify       bool
	watchNoSourceMaps bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Bundle on every source change until interrupted",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRoot, "root", "", "project root directory (overrides config)")
	watchCmd.Flags().StringVar(&watchEntry, "entry", "", "entrypoint file, relative to the project root (overrides config)")
	watchCmd.Flags().StringVar(&watchOutput, "out", "", "artifact output path (default: stdout)")
	watchCmd.Flags().BoolVar(&watchMinify, "minify", false, "minify emitted JS (overrides config)")
	watchCmd.Flags().BoolVar(&watchNoSourceMaps, "no-sourcemaps", false, "omit source maps (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	opts := bundlerOptionsFromConfig(c)
	if watchRoot != "" {
		opts.ProjectRoot = watchRoot
		opts.Entrypoint = filepath.Join(watchRoot, c.Entry)
	}
	if watchEntry != "" {
		opts.Entrypoint = filepath.Join(opts.ProjectRoot, watchEntry)
	}
	if cmd.Flags().Changed("minify") {
		opts.Minify = watchMinify
	}
	if cmd.Flags().Changed("no-sourcemaps") {
		opts.SourceMaps = !watchNoSourceMaps
	}

	output := c.Output
	if watchOutput != "" {
		output = watchOutput
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table := bundler.NewAssetTable()
	coord := watch.NewWithDebounce(opts, &bundler.EsbuildCompiler{}, table, log.Logger, c.Watch.DebounceWindow,
		func(result *bundler.Result) {
			if err := writeArtifact(result, output); err != nil {
				log.Error().Err(err).Msg("failed to write artifact")
				return
			}
			if output != "" {
				log.Info().Str("output", output).Int("assets", len(result.EmissionOrder)).Msg("bundle updated")
			}
		},
		func(err error) {
			log.Error().Err(err).Msg("bundling error")
		},
	)

	if err := coord.Start(ctx); err != nil {
		return err
	}
	log.Info().Str("entry", opts.Entrypoint).Msg("watching for changes")

	<-ctx.Done()
	log.Info().Msg("shutting down watcher")
	return coord.Stop()
}
