package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"flipkart_returns.csv", FormatCSV},
		{"Ajio Returns.XLSX", FormatXLSX},
		{"bundle.Zip", FormatZIP},
		{"dir/amazon.csv", FormatCSV},
		{"notes.txt", FormatUnknown},
		{"legacy.xls", FormatUnknown},
		{"noext", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromName(tt.name))
		})
	}
	assert.True(t, FormatCSV.Tabular())
	assert.True(t, FormatXLSX.Tabular())
	assert.False(t, FormatZIP.Tabular())
}

func TestReadTableCSV(t *testing.T) {
	data := csvBytes(t,
		[]string{"  SKU ", "Return Sub-reason", "Quantity"},
		[]string{"A1", "Size Issue", "3"},
		[]string{"A2", "Damaged"},
	)

	table, err := ReadTable(bytes.NewReader(data), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "Return Sub-reason", "Quantity"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 0, table.Column("SKU"))
	assert.Equal(t, -1, table.Column("Missing"))
	assert.Equal(t, "3", table.Cell(0, 2))
	assert.Equal(t, "", table.Cell(1, 2), "short rows read as empty")
}

func TestReadTableCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, csvBytes(t,
		[]string{"SKU", "Reason"},
		[]string{"A1", "Defective"},
	)...)

	table, err := ReadTable(bytes.NewReader(data), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "SKU", table.Headers[0])
}

func TestReadTableXLSX(t *testing.T) {
	data := xlsxBytes(t,
		[]any{"SELLER SKU", "Cust Return Reason", "Return QTY"},
		[]any{"S-1", "Wrong size", 2},
		[]any{nil, nil, nil},
		[]any{"S-2", "Colour mismatch", 1},
	)

	table, err := ReadTable(bytes.NewReader(data), FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, []string{"SELLER SKU", "Cust Return Reason", "Return QTY"}, table.Headers)
	require.Len(t, table.Rows, 2, "blank rows are skipped")
	assert.Equal(t, "S-2", table.Cell(1, 0))
	assert.Equal(t, "2", table.Cell(0, 2))
}

func TestReadTableXLSXHeaderAfterBlankRows(t *testing.T) {
	data := xlsxBytes(t,
		[]any{nil, nil, nil},
		[]any{"SKU", "Return Sub-reason", "Quantity"},
		[]any{"ABC123", "Size Issue", 5},
	)

	table, err := ReadTable(bytes.NewReader(data), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Return Sub-reason", "Quantity"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "ABC123", table.Cell(0, 0))

	_, err = ReadTable(bytes.NewReader(xlsxBytes(t, []any{nil}, []any{""})), FormatXLSX)
	assert.ErrorIs(t, err, errNoHeader)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(bytes.NewReader(nil), FormatCSV)
	assert.ErrorIs(t, err, errNoHeader)

	_, err = ReadTable(bytes.NewReader([]byte("not a workbook")), FormatXLSX)
	assert.Error(t, err)

	_, err = ReadTable(bytes.NewReader([]byte("x")), FormatZIP)
	assert.Error(t, err)
}
