package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCompiler passes source bytes through unchanged, letting these tests
// exercise the bundler's own orchestration (resolution, the closure loop,
// JSON encoding, emission order) independent of a real typed-source
// compiler.
type mockCompiler struct{}

func (mockCompiler) Compile(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error) {
	return passThrough(entries, opts)
}

func (mockCompiler) CompileLegacy(ctx context.Context, entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error) {
	return passThrough(entries, opts)
}

func passThrough(entries []string, opts CompileOptions) ([]CompiledFile, []Diagnostic, error) {
	var files []CompiledFile
	for _, entry := range entries {
		content, err := os.ReadFile(entry)
		if err != nil {
			return nil, nil, err
		}
		name, err := compiledAssetName(entry, opts.RootDir, opts.OutDir)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, CompiledFile{AssetName: name, Origin: entry, Contents: content})
	}
	return files, nil, nil
}

func setupProject(t *testing.T) (root string) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	return root
}

func TestBundleTrivialEntrypoint(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "export default 1;\n")

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            filepath.Join(root, "shims"),
	}

	result, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)

	assert.Equal(t, "/index.js", result.EntrypointAssetName)
	assert.Equal(t, []string{"/index.js"}, result.EmissionOrder)
	content, ok := result.Table.Output("/index.js")
	assert.True(t, ok)
	assert.Equal(t, "export default 1;\n", string(content))
}

func TestBundleRelativeDependency(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "import { helper } from \"./helper.js\";\nexport default helper;\n")
	writeFile(t, filepath.Join(root, "helper.js"), "export const helper = 1;\n")

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            filepath.Join(root, "shims"),
	}

	result, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)

	assert.Contains(t, result.EmissionOrder, "/helper.js")
	content, ok := result.Table.Output("/helper.js")
	assert.True(t, ok)
	assert.Equal(t, "export const helper = 1;\n", string(content))
}

func TestBundleShimRerouting(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "import fs from \"fs\";\nexport default fs;\n")

	shimDir := filepath.Join(root, "shims")
	fsShim := filepath.Join(shimDir, "frida-fs")
	require.NoError(t, os.MkdirAll(fsShim, 0o755))
	writeFile(t, filepath.Join(fsShim, "index.js"), "export default {};\n")

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            shimDir,
	}

	result, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)

	shimAssetName, err := AssetName(filepath.Join(fsShim, "index.js"), opts.CompilerRoot, opts.ProjectRoot)
	require.NoError(t, err)

	alias, ok := result.Table.Alias(shimAssetName)
	assert.True(t, ok)
	assert.Equal(t, "fs", alias)
}

func TestBundleJSONDependency(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "import data from \"./data.json\";\nexport default data;\n")
	writeFile(t, filepath.Join(root, "data.json"), `{"name":"widget"}`)

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            filepath.Join(root, "shims"),
	}

	result, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)

	content, ok := result.Table.Output("/data.json")
	assert.True(t, ok)
	assert.Contains(t, string(content), "export default d;")
	assert.Contains(t, string(content), "export const name = d.name;")
}

func TestBundleMissingDependencyFails(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "import missing from \"does-not-exist\";\nexport default missing;\n")

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            filepath.Join(root, "shims"),
	}

	_, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.Error(t, err)
	var unresolved *UnresolvedDependenciesError
	assert.ErrorAs(t, err, &unresolved)
	assert.Contains(t, unresolved.Specifiers, "does-not-exist")
}

func TestBundleEntrypointOutsideProjectRootFails(t *testing.T) {
	root := setupProject(t)
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "index.js"), "export default 1;\n")

	opts := Options{
		ProjectRoot: root,
		Entrypoint:  filepath.Join(outside, "index.js"),
	}

	_, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	assert.ErrorIs(t, err, ErrInvalidEntrypoint)
}

func TestBundleIsDeterministicAcrossRuns(t *testing.T) {
	root := setupProject(t)
	writeFile(t, filepath.Join(root, "index.js"), "import { a } from \"./a.js\";\nimport { b } from \"./b.js\";\nexport default a + b;\n")
	writeFile(t, filepath.Join(root, "a.js"), "export const a = 1;\n")
	writeFile(t, filepath.Join(root, "b.js"), "export const b = 2;\n")

	opts := Options{
		ProjectRoot:        root,
		Entrypoint:         filepath.Join(root, "index.js"),
		CompilerRoot:       filepath.Join(root, "compiler"),
		ProjectModulesDir:  filepath.Join(root, "node_modules"),
		CompilerModulesDir: filepath.Join(root, "node_modules"),
		ShimDir:            filepath.Join(root, "shims"),
	}

	first, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)
	second, err := Bundle(context.Background(), opts, mockCompiler{}, NewAssetTable())
	require.NoError(t, err)

	assert.Equal(t, first.EmissionOrder, second.EmissionOrder)
}
