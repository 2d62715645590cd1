package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scriptbundle/scriptbundle/internal/artifact"
	"github.com/scriptbundle/scriptbundle/internal/bundler"
)

var (
	buildRoot         string
	buildEntry        string
	buildOutput       string
	buildAnalyze      bool
	buildMinify       bool
	buildNoSourceMaps bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the project once and write the artifact",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildRoot, "root", "", "project root directory (overrides config)")
	buildCmd.Flags().StringVar(&buildEntry, "entry", "", "entrypoint file, relative to the project root (overrides config)")
	buildCmd.Flags().StringVar(&buildOutput, "out", "", "artifact output path (default: stdout)")
	buildCmd.Flags().BoolVar(&buildAnalyze, "analyze", false, "print an asset size breakdown after bundling")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", false, "minify emitted JS (overrides config)")
	buildCmd.Flags().BoolVar(&buildNoSourceMaps, "no-sourcemaps", false, "omit source maps (overrides config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	opts := bundlerOptionsFromConfig(c)
	if buildRoot != "" {
		opts.ProjectRoot = buildRoot
		opts.Entrypoint = filepath.Join(buildRoot, c.Entry)
	}
	if buildEntry != "" {
		opts.Entrypoint = filepath.Join(opts.ProjectRoot, buildEntry)
	}
	if cmd.Flags().Changed("minify") {
		opts.Minify = buildMinify
	}
	if cmd.Flags().Changed("no-sourcemaps") {
		opts.SourceMaps = !buildNoSourceMaps
	}

	output := c.Output
	if buildOutput != "" {
		output = buildOutput
	}

	table := bundler.NewAssetTable()
	result, err := bundler.Bundle(context.Background(), opts, &bundler.EsbuildCompiler{}, table)
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		log.Warn().Msg(d.Text)
	}

	if err := writeArtifact(result, output); err != nil {
		return err
	}

	if output != "" {
		log.Info().Str("output", output).Int("assets", len(result.EmissionOrder)).Msg("bundle written")
	}

	if buildAnalyze {
		bundler.DisplayAnalysis(os.Stderr, bundler.Analyze(result))
	}

	return nil
}

// writeArtifact serializes result to path, or to stdout when path is empty.
func writeArtifact(result *bundler.Result, path string) error {
	if path == "" {
		return serializeArtifact(result, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return serializeArtifact(result, f)
}

func serializeArtifact(result *bundler.Result, w io.Writer) error {
	content := func(name string) ([]byte, bool) {
		return result.Table.Output(name)
	}
	return artifact.Serialize(w, result.EmissionOrder, content, result.Table.Aliases())
}
