package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.ProjectRoot)
	assert.Equal(t, "index.js", cfg.Entry)
	assert.Equal(t, "", cfg.Output)
	assert.False(t, cfg.Minify)
	assert.True(t, cfg.SourceMaps)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.DebounceWindow)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
entry: src/main.js
output: out/bundle.scriptbundle
minify: true
watch:
  debounce_window: 500ms
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scriptbundle.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "src/main.js", cfg.Entry)
	assert.Equal(t, "out/bundle.scriptbundle", cfg.Output)
	assert.True(t, cfg.Minify)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceWindow)
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIPTBUNDLE_ENTRY", "from-env.js")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env.js", cfg.Entry)
}

func TestValidateRejectsEmptyFields(t *testing.T) {
	cfg := &Config{ProjectRoot: ".", Entry: "index.js", Output: "out.scriptbundle", Watch: WatchConfig{DebounceWindow: time.Millisecond}}
	assert.NoError(t, cfg.Validate())

	cfg.Entry = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDebounceWindow(t *testing.T) {
	cfg := &Config{ProjectRoot: ".", Entry: "index.js", Output: "out.scriptbundle", Watch: WatchConfig{DebounceWindow: 0}}
	assert.Error(t, cfg.Validate())
}
