package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsResolve(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "exports")

	p := PathsConfig{DataDir: "data", ExportsDir: abs, LogsDir: "var/logs"}.Resolve(base)

	assert.Equal(t, filepath.Join(base, "data"), p.DataDir)
	assert.Equal(t, abs, p.ExportsDir)
	assert.Equal(t, filepath.Join(base, "var", "logs"), p.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	p := Default().Paths.Resolve(t.TempDir())
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.ExportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestExportPath(t *testing.T) {
	p := Default().Paths.Resolve("/srv/returnpulse")

	got, err := p.ExportPath("run-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/returnpulse", "data", "exports", "run-1.xlsx"), got)

	for _, bad := range []string{"", "../secrets", "a/b.csv", ".."} {
		_, err := p.ExportPath(bad)
		assert.Error(t, err, bad)
	}
}
