package dataprocessing

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"returnpulse/internal/platform"
)

// csvBytes renders rows (header first) as a CSV document.
func csvBytes(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))
	return buf.Bytes()
}

// xlsxBytes renders rows (header first) into the first sheet of a workbook.
func xlsxBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

type zipEntry struct {
	name string
	data []byte
}

func zipBytes(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func mustSchema(t *testing.T, p platform.Platform) platform.Schema {
	t.Helper()
	s, err := platform.Lookup(p)
	require.NoError(t, err)
	return s
}

// flipkartCSV is a small valid Flipkart export with one malformed row.
func flipkartCSV(t *testing.T) []byte {
	return csvBytes(t,
		[]string{"Order ID", "SKU", "Return Sub-reason", "Quantity"},
		[]string{"OD1", "ABC123", "Size Issue", "5"},
		[]string{"OD2", "", "Size Issue", "2"},
		[]string{"OD3", "XYZ9", "Damaged", "1"},
	)
}
