package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[export]
format = "msgpack"
jobs = 4

[macros]
opaque = ["std::println", "log::**"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "msgpack", cfg.Export.Format)
	assert.Equal(t, 4, cfg.Export.Jobs)
	assert.Equal(t, "irx-out", cfg.Export.OutDir)
	assert.Equal(t, Default().Export.MaxExpansionDepth, cfg.Export.MaxExpansionDepth)
	assert.Equal(t, []string{"std::println", "log::**"}, cfg.Macros.Opaque)
	assert.Equal(t, "pretty", cfg.Diagnostics.Format)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "[export\n", "failed to parse TOML"},
		{"unknown key", "[export]\ncolour = true\n", "unknown keys: export.colour"},
		{"format", "[export]\nformat = \"yaml\"\n", `export.format "yaml"`},
		{"depth", "[export]\nmax_expansion_depth = 0\n", "max_expansion_depth must be positive"},
		{"jobs", "[export]\njobs = -1\n", "jobs must not be negative"},
		{"pattern", "[macros]\nopaque = [\"a::**::b\"]\n", "** must be the last segment"},
		{"empty segment", "[macros]\nopaque = [\"a::::b\"]\n", "empty segment"},
		{"diag format", "[diagnostics]\nformat = \"xml\"\n", `diagnostics.format "xml"`},
		{"min severity", "[diagnostics]\nmin_severity = \"loud\"\n", `diagnostics.min_severity: unknown severity "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.text)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, got)

	cfg, err := Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

func TestResolveWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	if _, ok, _ := Find(dir); ok {
		t.Skip("an irx.toml exists above the temp directory")
	}
	cfg, err := Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
