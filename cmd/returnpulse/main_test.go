package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	api "returnpulse/pkg/contracts/api/v1"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flipkart_returns.csv"),
		[]byte("Order ID,SKU,Return Sub-reason,Quantity\nOD1,ABC123,Size Issue,5\nOD2,,Size Issue,2\nOD3,XYZ9,Damaged,1\n"), 0644))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("meesho_march.csv")
	require.NoError(t, err)
	_, err = io.WriteString(w, "SKU,Detailed Return Reason\nABC123,Size Issue\nM1,Wrong Item\n")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bundle.zip"), buf.Bytes(), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0644))
	return dir
}

func TestReportCommand(t *testing.T) {
	dir := writeFixtures(t)

	out, err := execute(t, "report", "--dir", dir, "--group", "sku")
	require.NoError(t, err)

	assert.Contains(t, out, "flipkart_returns.csv")
	assert.Contains(t, out, "bundle.zip:meesho_march.csv")
	assert.NotContains(t, out, "readme.txt")
	assert.Contains(t, out, "Records: 4  Quantity: 8  SKUs: 3  Reasons: 3  Platforms: 2")
	assert.Contains(t, out, "By SKU")

	lines := strings.Split(out, "\n")
	var groupLines []string
	for i, l := range lines {
		if l == "By SKU" {
			groupLines = lines[i+1:]
			break
		}
	}
	require.NotEmpty(t, groupLines)
	assert.Contains(t, groupLines[0], "ABC123")
	assert.Contains(t, groupLines[0], "6")
}

func TestReportCommandFilterAndExport(t *testing.T) {
	dir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "flipkart.xlsx")

	out, err := execute(t, "report", filepath.Join(dir, "flipkart_returns.csv"),
		"--platform", "flipkart", "--group", "reason", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Records: 2  Quantity: 6")
	assert.Contains(t, out, "By Reason")
	assert.Contains(t, out, "Wrote 2 records to "+outPath)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestReportCommandExportsBareNameToExportsDir(t *testing.T) {
	dir := writeFixtures(t)
	exports := filepath.Join(t.TempDir(), "exports")
	t.Setenv("RETURNPULSE_CONFIG", "")
	t.Setenv("RETURNPULSE_PATHS_EXPORTS_DIR", exports)

	out, err := execute(t, "report", dir, "--out", "all.csv")
	require.NoError(t, err)

	want := filepath.Join(exports, "all.csv")
	assert.Contains(t, out, "Wrote 4 records to "+want)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SKU,Reason,Platform,Quantity\n")
}

func TestReportCommandExplicitUnsupportedFile(t *testing.T) {
	dir := writeFixtures(t)

	out, err := execute(t, "report", filepath.Join(dir, "readme.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "unsupported_format")
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, "(no records)")
}

func TestReportCommandErrors(t *testing.T) {
	dir := writeFixtures(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"report"}},
		{"bad group", []string{"report", dir, "--group", "colour"}},
		{"bad format", []string{"report", dir, "--format", "pdf"}},
		{"unknown extension", []string{"report", dir, "--out", filepath.Join(t.TempDir(), "x.json")}},
		{"negative limit", []string{"report", dir, "--limit", "-1"}},
		{"missing path", []string{"report", filepath.Join(dir, "missing.csv")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestPlatformsCommand(t *testing.T) {
	out, err := execute(t, "platforms")
	require.NoError(t, err)
	assert.Contains(t, out, "amazon_flex")
	assert.Contains(t, out, "Return Sub-reason")

	out, err = execute(t, "platforms", "--json")
	require.NoError(t, err)
	var listing api.PlatformsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Len(t, listing.Platforms, 6)
}
