package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"returnpulse/internal/dataprocessing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meesho.CSV", "a")
	writeFile(t, dir, "ajio.xlsx", "b")
	writeFile(t, dir, "bundle.zip", "c")
	writeFile(t, dir, "notes.txt", "d")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	found, err := NewDiscovery("").FindSources(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ajio.xlsx", "bundle.zip", "meesho.CSV"}, names)
	assert.Equal(t, dataprocessing.FormatZIP, found[1].Format)
	assert.Equal(t, filepath.Join(dir, "ajio.xlsx"), found[0].Path)
}

func TestFindSourcesRelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "inbox"), 0755))
	writeFile(t, filepath.Join(base, "inbox"), "returns.csv", "x")

	found, err := NewDiscovery(base).FindSources("inbox")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].Size)
}

func TestFindSourcesMissingDir(t *testing.T) {
	_, err := NewDiscovery("").FindSources(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "SKU\n")
	writeFile(t, dir, "a.xlsx", "xlsx")
	writeFile(t, dir, "skip.txt", "ignored in directories")
	other := t.TempDir()
	explicit := writeFile(t, other, "notes.txt", "named explicitly")

	sources, err := LoadSources(context.Background(), []string{explicit, dir})
	require.NoError(t, err)

	require.Len(t, sources, 3)
	assert.Equal(t, "notes.txt", sources[0].Name)
	assert.Equal(t, "a.xlsx", sources[1].Name)
	assert.Equal(t, "b.csv", sources[2].Name)
	assert.Equal(t, []byte("SKU\n"), sources[2].Data)
}

func TestLoadSourcesMissingPath(t *testing.T) {
	_, err := LoadSources(context.Background(), []string{filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, err)
}

func TestLoaderSizeLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "12345")
	writeFile(t, dir, "b.csv", "67890")

	_, err := NewLoader(8, nil).LoadSources(context.Background(), []string{dir})
	assert.ErrorIs(t, err, ErrInputTooLarge)

	sources, err := NewLoader(10, nil).LoadSources(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestLoaderCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(0, nil).LoadSources(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}
