package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, []int{1, 5, 10}, cfg.Metrics.TopK)
	require.Equal(t, 4, cfg.Duplicates.LikelyHammingThreshold)
}

func TestLoadJSONOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagmetry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"duplicates": {"enabled": true, "likely_hamming_threshold": 6}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Duplicates.Enabled)
	require.Equal(t, 6, cfg.Duplicates.LikelyHammingThreshold)
	require.Equal(t, []int{1, 5, 10}, cfg.Metrics.TopK) // untouched default survives the overlay
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagmetry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: ./custom-output\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./custom-output", cfg.Output.Dir)
}

func TestFindConfigFileAbsentReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(cwd)
	require.NoError(t, os.Chdir(dir))

	require.Equal(t, "", FindConfigFile())
}
