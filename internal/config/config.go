// Package config loads scriptbundle's project configuration from
// environment variables, a YAML file, and built-in defaults, in that order
// of decreasing priority once merged.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs a bundling or watch run needs.
type Config struct {
	ProjectRoot        string      `yaml:"project_root"`
	Entry              string      `yaml:"entry"`
	Output             string      `yaml:"output"`
	CompilerRoot       string      `yaml:"compiler_root"`
	ProjectModulesDir  string      `yaml:"project_modules_dir"`
	CompilerModulesDir string      `yaml:"compiler_modules_dir"`
	ShimDir            string      `yaml:"shim_dir"`
	SourceMaps         bool        `yaml:"source_maps"`
	Minify             bool        `yaml:"minify"`
	Watch              WatchConfig `yaml:"watch"`
}

// WatchConfig controls the Watch Coordinator's debounce behavior.
type WatchConfig struct {
	DebounceWindow time.Duration `yaml:"-"`
}

// UnmarshalYAML decodes debounce_window from a duration string ("250ms"),
// since time.Duration has no native YAML scalar form.
func (w *WatchConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		DebounceWindow string `yaml:"debounce_window"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.DebounceWindow == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.DebounceWindow)
	if err != nil {
		return fmt.Errorf("invalid watch.debounce_window %q: %w", raw.DebounceWindow, err)
	}
	w.DebounceWindow = d
	return nil
}

func defaultConfig() *Config {
	return &Config{
		ProjectRoot:        ".",
		Entry:              "index.js",
		Output:             "",
		CompilerRoot:       ".",
		ProjectModulesDir:  "node_modules",
		CompilerModulesDir: "node_modules",
		ShimDir:            "shims",
		SourceMaps:         true,
		Minify:             false,
		Watch:              WatchConfig{DebounceWindow: 250 * time.Millisecond},
	}
}

// Load reads scriptbundle.yaml from the given directories (the first one
// that contains it wins), merges in SCRIPTBUNDLE_-prefixed environment
// variables, and falls back to built-in defaults for anything unset.
func Load(searchPaths ...string) (*Config, error) {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}

	cfg := defaultConfig()

	path := findConfigFile(searchPaths)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to decode config: %w", err)
		}
		log.Info().Str("file", path).Msg("config file loaded")
	} else {
		log.Debug().Msg("no scriptbundle.yaml found, using environment variables and defaults")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile accepts either a directory (scriptbundle.yaml inside it)
// or a direct path to a YAML file, so --config can name either.
func findConfigFile(searchPaths []string) string {
	for _, p := range searchPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
		candidate := filepath.Join(p, "scriptbundle.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIPTBUNDLE_PROJECT_ROOT"); v != "" {
		cfg.ProjectRoot = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_ENTRY"); v != "" {
		cfg.Entry = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_COMPILER_ROOT"); v != "" {
		cfg.CompilerRoot = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_PROJECT_MODULES_DIR"); v != "" {
		cfg.ProjectModulesDir = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_COMPILER_MODULES_DIR"); v != "" {
		cfg.CompilerModulesDir = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_SHIM_DIR"); v != "" {
		cfg.ShimDir = v
	}
	if v := os.Getenv("SCRIPTBUNDLE_SOURCE_MAPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SourceMaps = b
		}
	}
	if v := os.Getenv("SCRIPTBUNDLE_MINIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Minify = b
		}
	}
	if v := os.Getenv("SCRIPTBUNDLE_WATCH_DEBOUNCE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.DebounceWindow = d
		}
	}
}

// Validate reports configuration errors that would otherwise surface as
// confusing failures deep inside the bundler.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project_root must not be empty")
	}
	if c.Entry == "" {
		return fmt.Errorf("entry must not be empty")
	}
	if c.Watch.DebounceWindow <= 0 {
		return fmt.Errorf("watch.debounce_window must be positive")
	}
	return nil
}
