package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptbundle/scriptbundle/internal/config"
)

func TestBundlerOptionsFromConfig(t *testing.T) {
	c := &config.Config{
		ProjectRoot:        "/proj",
		Entry:              "src/index.js",
		Output:             "out.scriptbundle",
		CompilerRoot:       "/compiler",
		ProjectModulesDir:  "node_modules",
		CompilerModulesDir: "/compiler/node_modules",
		ShimDir:            "shims",
		SourceMaps:         true,
		Minify:             true,
	}

	opts := bundlerOptionsFromConfig(c)

	assert.Equal(t, "/proj", opts.ProjectRoot)
	assert.Equal(t, filepath.Join("/proj", "src/index.js"), opts.Entrypoint)
	assert.Equal(t, "/compiler", opts.CompilerRoot)
	assert.Equal(t, "node_modules", opts.ProjectModulesDir)
	assert.Equal(t, "/compiler/node_modules", opts.CompilerModulesDir)
	assert.Equal(t, "shims", opts.ShimDir)
	assert.True(t, opts.SourceMaps)
	assert.True(t, opts.Minify)
}
