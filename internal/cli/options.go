package cli

import (
	"path/filepath"

	"github.com/scriptbundle/scriptbundle/internal/bundler"
	"github.com/scriptbundle/scriptbundle/internal/config"
)

// bundlerOptionsFromConfig translates a loaded Config into bundler.Options,
// resolving the entrypoint relative to the project root.
func bundlerOptionsFromConfig(c *config.Config) bundler.Options {
	return bundler.Options{
		ProjectRoot:        c.ProjectRoot,
		Entrypoint:         filepath.Join(c.ProjectRoot, c.Entry),
		CompilerRoot:       c.CompilerRoot,
		ProjectModulesDir:  c.ProjectModulesDir,
		CompilerModulesDir: c.CompilerModulesDir,
		ShimDir:            c.ShimDir,
		SourceMaps:         c.SourceMaps,
		Minify:             c.Minify,
	}
}
