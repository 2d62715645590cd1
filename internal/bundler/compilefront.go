package bundler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// CompileOptions configures one compile pass: only the emission-shape
// fields the bundler depends on. No project compiler configuration file is
// read; EsbuildCompiler always compiles with its fixed settings (ES2020
// target, ES module format, neutral platform).
type CompileOptions struct {
	RootDir    string
	OutDir     string
	SourceRoot string
	SourceMaps bool
}

// CompiledFile is one file captured by the write-file sink.
type CompiledFile struct {
	AssetName string
	Origin    string
	Contents  []byte
}

// Diagnostic is a compiler diagnostic forwarded to the diagnostic sink.
// Diagnostics are non-fatal by themselves; they're reported alongside a
// successful Result rather than turned into errors.
type Diagnostic struct {
	Text string
}

// Compiler is the typed-source compiler collaborator. EsbuildCompiler is
// the default implementation backing it.
type Compiler interface {
	Compile(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error)
	CompileLegacy(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error)
}

// EsbuildCompiler backs both the typed-source Compile Front and, via
// CompileLegacy, the on-demand legacy-to-modern transformer.
type EsbuildCompiler struct{}

func (c *EsbuildCompiler) Compile(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error) {
	return c.build(entries, opts, esbuild.FormatESModule)
}

// CompileLegacy re-emits legacy modules in modern form. The emitted files
// still carry a leading "use strict" prologue from the source; the caller
// strips it before handing results to the sink.
func (c *EsbuildCompiler) CompileLegacy(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error) {
	return c.build(entries, opts, esbuild.FormatESModule)
}

func (c *EsbuildCompiler) build(entries []string, opts CompileOptions, format esbuild.Format) ([]CompiledFile, []Diagnostic, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	sourcemap := esbuild.SourceMapNone
	if opts.SourceMaps {
		sourcemap = esbuild.SourceMapExternal
	}

	result := esbuild.Build(esbuild.BuildOptions{
		EntryPoints: entries,
		Outbase:     opts.RootDir,
		Outdir:      opts.OutDir,
		Bundle:      false,
		Write:       false,
		Platform:    esbuild.PlatformNeutral,
		Format:      format,
		Target:      esbuild.ES2020,
		Sourcemap:   sourcemap,
	})

	diagnostics := make([]Diagnostic, 0, len(result.Errors)+len(result.Warnings))
	for _, msg := range result.Errors {
		diagnostics = append(diagnostics, Diagnostic{Text: msg.Text})
	}
	for _, msg := range result.Warnings {
		diagnostics = append(diagnostics, Diagnostic{Text: msg.Text})
	}
	if len(result.Errors) > 0 && len(result.OutputFiles) == 0 {
		return nil, diagnostics, fmt.Errorf("compile failed: %s", result.Errors[0].Text)
	}

	mains, maps := splitOutputFiles(result.OutputFiles)

	files := make([]CompiledFile, 0, len(entries))
	for i, entry := range entries {
		if i >= len(mains) {
			break
		}
		main := mains[i]
		assetName, err := compiledAssetName(entry, opts.RootDir, opts.OutDir)
		if err != nil {
			return nil, diagnostics, err
		}
		files = append(files, CompiledFile{AssetName: assetName, Origin: entry, Contents: main.Contents})

		if mapFile, ok := maps[main.Path+".map"]; ok {
			files = append(files, CompiledFile{AssetName: assetName + ".map", Origin: entry, Contents: mapFile.Contents})
		}
	}

	return files, diagnostics, nil
}

// splitOutputFiles separates esbuild's flat OutputFiles slice into ordered
// main files and a lookup of sourcemap files by the main path they
// describe.
func splitOutputFiles(outputs []esbuild.OutputFile) (mains []esbuild.OutputFile, maps map[string]esbuild.OutputFile) {
	maps = make(map[string]esbuild.OutputFile)
	for _, f := range outputs {
		if strings.HasSuffix(f.Path, ".map") {
			maps[f.Path] = f
			continue
		}
		mains = append(mains, f)
	}
	return mains, maps
}

// compiledAssetName maps an entry's path relative to rootDir, under
// outDir, with a typed-source extension swapped for ".js".
func compiledAssetName(entryHostPath, rootDir, outDir string) (string, error) {
	rel, err := filepath.Rel(rootDir, entryHostPath)
	if err != nil {
		return "", err
	}
	rel = ToPortable(rel)

	switch ext := filepath.Ext(rel); ext {
	case ".ts", ".tsx", ".mts", ".cts":
		rel = strings.TrimSuffix(rel, ext) + ".js"
	}

	name := strings.TrimSuffix(outDir, "/") + "/" + strings.TrimPrefix(rel, "/")
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name, nil
}
