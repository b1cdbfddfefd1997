package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/config"
)

func TestLoadFromMissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Equal(t, 0.25, cfg.Editor.AddNoteDuration)
	assert.False(t, cfg.Editor.ReadOnly)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := config.DefaultConfig()
	cfg.Editor.AddNoteDuration = 0.5
	cfg.Editor.ReadOnly = true
	cfg.UI.LastFile = "song.mid"
	require.NoError(t, cfg.SaveTo(path))

	got, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFromKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"editor":{"addNoteDuration":1}}`), 0644))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Editor.AddNoteDuration)
	assert.Equal(t, "plasma", cfg.UI.Palette)
}

func TestLoadFromRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"editor":`), 0644))
	_, err := config.LoadFrom(bad)
	require.Error(t, err)

	negative := filepath.Join(dir, "negative.json")
	require.NoError(t, os.WriteFile(negative, []byte(`{"editor":{"addNoteDuration":-1}}`), 0644))
	_, err = config.LoadFrom(negative)
	require.Error(t, err)

	tooLong := filepath.Join(dir, "long.json")
	require.NoError(t, os.WriteFile(tooLong, []byte(`{"editor":{"addNoteDuration":400}}`), 0644))
	_, err = config.LoadFrom(tooLong)
	require.Error(t, err)
}

func TestApplyEnvRejectsDurationPastCeiling(t *testing.T) {
	t.Setenv(config.EnvAddNoteDuration, "400")
	require.Error(t, config.DefaultConfig().ApplyEnv())

	t.Setenv(config.EnvAddNoteDuration, "300")
	require.NoError(t, config.DefaultConfig().ApplyEnv())
}

func TestRememberKeepsOverridesOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, config.DefaultConfig().SaveTo(path))

	// a run with -readonly, -add 0 and an export dir from the environment
	running, err := config.LoadFrom(path)
	require.NoError(t, err)
	running.Editor.ReadOnly = true
	running.Editor.AddNoteDuration = 0
	running.UI.Debug = true
	running.UI.Palette = "mono"
	running.Export.Dir = "/tmp/out"
	running.UI.LastProject = "demo"

	require.NoError(t, config.RememberAt(path, "song.mid", running.UI.LastProject))

	got, err := config.LoadFrom(path)
	require.NoError(t, err)
	want := config.DefaultConfig()
	want.UI.LastFile = "song.mid"
	want.UI.LastProject = "demo"
	assert.Equal(t, want, got)
}

func TestRememberKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.DefaultConfig()
	cfg.UI.LastFile = "old.mid"
	cfg.Editor.AddNoteDuration = 1
	require.NoError(t, cfg.SaveTo(path))

	require.NoError(t, config.RememberAt(path, "", "other"))

	got, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "old.mid", got.UI.LastFile)
	assert.Equal(t, "other", got.UI.LastProject)
	assert.Equal(t, 1.0, got.Editor.AddNoteDuration)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(config.EnvAddNoteDuration, "0.125")
	t.Setenv(config.EnvReadOnly, "true")
	t.Setenv(config.EnvPalette, "mono")
	t.Setenv(config.EnvExportDir, "/tmp/out")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 0.125, cfg.Editor.AddNoteDuration)
	assert.True(t, cfg.Editor.ReadOnly)
	assert.Equal(t, "mono", cfg.UI.Palette)
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
	assert.Equal(t, "untitled", cfg.UI.LastProject)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv(config.EnvAddNoteDuration, "quarter")
	require.Error(t, config.DefaultConfig().ApplyEnv())

	t.Setenv(config.EnvAddNoteDuration, "")
	t.Setenv(config.EnvReadOnly, "maybe")
	require.Error(t, config.DefaultConfig().ApplyEnv())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PIANOROLL_PROJECT=from-dotenv\n"), 0644))

	// t.Setenv registers cleanup; clear it so godotenv can set it
	t.Setenv(config.EnvProject, "")
	require.NoError(t, os.Unsetenv(config.EnvProject))

	require.NoError(t, config.LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv(config.EnvProject))

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "from-dotenv", cfg.UI.LastProject)
}
