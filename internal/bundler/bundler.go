package bundler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Module is the data model's Module record: created when first encountered
// by the Dependency Walker or as a compiled entrypoint, never mutated
// after insertion.
type Module struct {
	Kind ModuleKind
	Path string
	File *ParsedSource
}

// Entrypoint is the data model's Entrypoint: an absolute host input path
// and the asset name it compiles to.
type Entrypoint struct {
	Input  string
	Output string
}

// Options configures a single bundling run.
type Options struct {
	ProjectRoot        string
	Entrypoint         string
	CompilerRoot        string
	ProjectModulesDir    string
	CompilerModulesDir   string
	ShimDir              string
	SourceMaps           bool
	Minify               bool
}

// Result is everything the Serializer needs to emit an artifact.
type Result struct {
	Table                *AssetTable
	EmissionOrder        []string
	EntrypointAssetName  string
	Diagnostics          []Diagnostic
}

// resolveConfig builds the ResolveConfig shared by the Dependency Walker
// and the closure loop from bundling Options.
func resolveConfig(opts Options) ResolveConfig {
	return ResolveConfig{
		CompilerRoot:       opts.CompilerRoot,
		ProjectRoot:        opts.ProjectRoot,
		ProjectModulesDir:  opts.ProjectModulesDir,
		CompilerModulesDir: opts.CompilerModulesDir,
		ShimDir:            opts.ShimDir,
		Shims:              NewShimRegistry(),
	}
}

// Bundle runs one full bundling pass: compile the entrypoint, walk its
// dependencies into the closure loop, add any remaining discovered files
// directly, recompile legacy modules through the second pass, and finally
// post-process every output asset. table is reused across watch-mode
// rebuilds; callers running a one-shot build pass a fresh NewAssetTable().
func Bundle(ctx context.Context, opts Options, compiler Compiler, table *AssetTable) (*Result, error) {
	entrypoint, err := newEntrypoint(opts)
	if err != nil {
		return nil, err
	}

	cfg := resolveConfig(opts)

	compileOpts := CompileOptions{
		RootDir:    opts.ProjectRoot,
		OutDir:     "/",
		SourceRoot: opts.ProjectRoot,
		SourceMaps: opts.SourceMaps,
	}

	files, diags, err := compiler.Compile(ctx, []string{entrypoint.Input}, compileOpts)
	if err != nil {
		return nil, err
	}

	modules := make(map[string]*Module)
	for _, f := range files {
		table.SetOutput(f.AssetName, f.Contents)
		table.SetOrigin(f.AssetName, f.Origin)
	}
	table.MarkProcessed(entrypoint.Input)
	table.MarkProcessed(entrypoint.Output)
	ext := filepath.Ext(entrypoint.Input)
	table.MarkProcessed(strings.TrimSuffix(entrypoint.Input, ext) + ".js")

	for _, f := range files {
		if strings.HasSuffix(f.AssetName, ".map") {
			continue
		}
		src, err := ParseSource(ctx, f.Origin, f.Contents)
		if err != nil {
			return nil, err
		}
		table.CacheExternalSource(f.Origin, src)
		modules[f.Origin] = &Module{Kind: Modern, Path: f.Origin, File: src}
		for _, spec := range WalkDependencies(src) {
			walkSpecifier(spec, f.Origin, table, cfg)
		}
	}

	if err := runClosureLoop(ctx, table, cfg, modules); err != nil {
		return nil, err
	}

	addDirectFiles(table, cfg, modules)

	legacyDiags, err := recompileLegacy(ctx, compiler, compileOpts, table, modules)
	if err != nil {
		return nil, err
	}
	diags = append(diags, legacyDiags...)

	postDiags, err := postProcess(table, opts)
	if err != nil {
		return nil, err
	}
	diags = append(diags, postDiags...)

	order := EmissionOrder(table.OutputNames(), entrypoint.Output)

	return &Result{
		Table:               table,
		EmissionOrder:       order,
		EntrypointAssetName: entrypoint.Output,
		Diagnostics:         diags,
	}, nil
}

func newEntrypoint(opts Options) (Entrypoint, error) {
	abs, err := filepath.Abs(opts.Entrypoint)
	if err != nil {
		return Entrypoint{}, err
	}
	projectRoot, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return Entrypoint{}, err
	}
	if !isUnder(abs, projectRoot) {
		return Entrypoint{}, ErrInvalidEntrypoint
	}

	output, err := compiledAssetName(abs, projectRoot, "/")
	if err != nil {
		return Entrypoint{}, err
	}
	return Entrypoint{Input: abs, Output: output}, nil
}

// walkSpecifier resolves one dependency specifier discovered in a module
// and enqueues it for processing.
func walkSpecifier(specifier, requesterHostPath string, table *AssetTable, cfg ResolveConfig) {
	isRelative := strings.HasPrefix(specifier, ".")

	if strings.HasSuffix(specifier, ".json") {
		var jsonPath string
		if isRelative {
			jsonPath = filepath.Join(filepath.Dir(requesterHostPath), ToNative(specifier))
		} else {
			res := Resolve(specifier, requesterHostPath, cfg)
			if res.Missing {
				return
			}
			jsonPath = res.ResolvedPath
		}
		table.AddJSONFile(jsonPath)
		return
	}

	if isRelative {
		resolved := filepath.Join(filepath.Dir(requesterHostPath), ToNative(specifier))
		table.Enqueue(resolved, requesterHostPath)
		return
	}

	table.Enqueue(specifier, requesterHostPath)
}

// runClosureLoop drains the pending-modules worklist until empty,
// resolving, reading, and re-walking each entry; it accumulates missing
// specifiers and fails only once the worklist is fully drained.
func runClosureLoop(ctx context.Context, table *AssetTable, cfg ResolveConfig, modules map[string]*Module) error {
	var missing []string

	for {
		specifierOrPath, requester, ok := table.PopPending()
		if !ok {
			break
		}
		table.MarkProcessed(specifierOrPath)

		res := Resolve(specifierOrPath, requester, cfg)
		if res.Missing {
			missing = append(missing, specifierOrPath)
			continue
		}

		if _, already := modules[res.ResolvedPath]; already {
			continue
		}

		content, err := readExternalSource(table, res.ResolvedPath)
		if err != nil {
			return &ReadFailureError{Path: res.ResolvedPath, Err: err}
		}

		src, err := ParseSource(ctx, res.ResolvedPath, content)
		if err != nil {
			return err
		}
		table.CacheExternalSource(res.ResolvedPath, src)

		if res.AliasNeeded && res.AliasName != "" {
			table.SetAlias(res.AliasName, res.AliasSpecifier)
		}

		kind := DetectModuleKind(res.ResolvedPath)
		mod := &Module{Kind: kind, Path: res.ResolvedPath, File: src}
		modules[res.ResolvedPath] = mod

		for _, spec := range WalkDependencies(src) {
			walkSpecifier(spec, res.ResolvedPath, table, cfg)
		}
	}

	if len(missing) > 0 {
		return &UnresolvedDependenciesError{Specifiers: missing}
	}
	return nil
}

func readExternalSource(table *AssetTable, path string) ([]byte, error) {
	if src, ok := table.ExternalSource(path); ok {
		return src.Content, nil
	}
	return os.ReadFile(path)
}

// addDirectFiles adds every discovered .js file with no output entry yet
// verbatim from disk, for modules the closure loop touched but the
// compiler never emitted (e.g. untouched shims).
func addDirectFiles(table *AssetTable, cfg ResolveConfig, modules map[string]*Module) {
	for path, mod := range modules {
		if !strings.HasSuffix(path, ".js") {
			continue
		}
		name, err := AssetName(path, cfg.CompilerRoot, cfg.ProjectRoot)
		if err != nil {
			continue
		}
		if _, exists := table.Output(name); exists {
			continue
		}
		table.SetOutput(name, mod.File.Content)
		table.SetOrigin(name, path)
	}

	for _, path := range table.JSONFiles() {
		name, err := AssetName(path, cfg.CompilerRoot, cfg.ProjectRoot)
		if err != nil {
			continue
		}
		if _, exists := table.Output(name); exists {
			continue
		}
		content, err := readExternalSource(table, path)
		if err != nil {
			continue
		}
		table.SetOutput(name, content)
		table.SetOrigin(name, path)
	}
}

// recompileLegacy re-emits every legacy module under the legacy-to-modern
// transformer and strips its strict-mode prologue, overriding whatever was
// written at the same asset name by the direct-add step above.
func recompileLegacy(ctx context.Context, compiler Compiler, base CompileOptions, table *AssetTable, modules map[string]*Module) ([]Diagnostic, error) {
	var legacyPaths []string
	for path, mod := range modules {
		if mod.Kind == Legacy {
			legacyPaths = append(legacyPaths, path)
		}
	}
	if len(legacyPaths) == 0 {
		return nil, nil
	}

	files, diags, err := compiler.CompileLegacy(ctx, legacyPaths, base)
	if err != nil {
		return diags, err
	}

	for _, f := range files {
		table.SetOutput(f.AssetName, StripUseStrict(f.Contents))
		table.SetOrigin(f.AssetName, f.Origin)
	}
	return diags, nil
}

// postProcess rewrites every output asset: sourceMappingURL stripping and
// optional minification for .js assets, JSON-to-module encoding for .json
// assets.
func postProcess(table *AssetTable, opts Options) ([]Diagnostic, error) {
	var diags []Diagnostic

	for _, name := range table.OutputNames() {
		switch {
		case strings.HasSuffix(name, ".js"):
			content, _ := table.Output(name)
			content = StripSourceMappingURL(content)

			if opts.Minify {
				var priorMap []byte
				mapName := name + ".map"
				if m, ok := table.Output(mapName); ok {
					priorMap = m
				}
				origin, _ := table.Origin(name)
				minified, newMap, minDiags, err := Minify(content, priorMap, origin, name, opts.SourceMaps)
				diags = append(diags, minDiags...)
				if err != nil {
					return diags, err
				}
				content = minified
				if opts.SourceMaps && newMap != nil {
					table.SetOutput(mapName, newMap)
				}
			}

			table.SetOutput(name, content)

		case strings.HasSuffix(name, ".json"):
			content, _ := table.Output(name)
			encoded, err := EncodeJSONModule(content)
			if err != nil {
				return diags, err
			}
			table.SetOutput(name, []byte(encoded))
		}
	}

	return diags, nil
}
