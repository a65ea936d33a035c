package dataprocessing

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "returnpulse/internal/errors"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

func TestExtractFlipkart(t *testing.T) {
	data := csvBytes(t,
		[]string{"SKU", "Return Sub-reason", "Quantity"},
		[]string{"ABC123", "Size Issue", "5"},
		[]string{"", "Size Issue", "2"},
	)

	ext, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatCSV, mustSchema(t, platform.Flipkart), "flipkart.csv")
	require.NoError(t, err)

	assert.Equal(t, []domain.ReturnRecord{
		{SKU: "ABC123", Reason: "Size Issue", Platform: "Flipkart", Quantity: 5},
	}, ext.Records)
	assert.Equal(t, 2, ext.RowsRead)
	assert.Equal(t, 1, ext.RowsDropped)
	assert.Equal(t, 5, ext.Quantity())
}

func TestExtractWorkbookWithLeadingBlankRow(t *testing.T) {
	data := xlsxBytes(t,
		[]any{nil, nil, nil},
		[]any{"SKU", "Return Sub-reason", "Quantity"},
		[]any{"ABC123", "Size Issue", 5},
		[]any{"XYZ9", "Damaged", 1},
	)

	ext, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatXLSX, mustSchema(t, platform.Flipkart), "flipkart.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, ext.RowsRead)
	assert.Equal(t, []domain.ReturnRecord{
		{SKU: "ABC123", Reason: "Size Issue", Platform: "Flipkart", Quantity: 5},
		{SKU: "XYZ9", Reason: "Damaged", Platform: "Flipkart", Quantity: 1},
	}, ext.Records)
}

func TestExtractEveryPlatformWithExtraColumns(t *testing.T) {
	for _, schema := range platform.All() {
		t.Run(string(schema.ID), func(t *testing.T) {
			header := append([]string{"Order Id"}, schema.RequiredColumns()...)
			header = append(header, "Comments")
			row := []string{"O-1", "SKU-1", "Defective"}
			if schema.HasQuantity() {
				row = append(row, "2")
			}
			row = append(row, "n/a")

			data := csvBytes(t, header, row)
			ext, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatCSV, schema, "source.csv")
			require.NoError(t, err)
			require.Len(t, ext.Records, 1)

			rec := ext.Records[0]
			assert.Equal(t, schema.DisplayName, rec.Platform)
			assert.Equal(t, "SKU-1", rec.SKU)
			assert.Equal(t, "Defective", rec.Reason)
		})
	}
}

func TestExtractMissingReasonColumn(t *testing.T) {
	for _, schema := range platform.All() {
		t.Run(string(schema.ID), func(t *testing.T) {
			header := []string{schema.SKUColumn, "Something Else"}
			if schema.HasQuantity() {
				header = append(header, schema.QuantityColumn)
			}
			data := csvBytes(t, header, make([]string, len(header)))

			_, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatCSV, schema, "bad.csv")
			require.Error(t, err)

			var xerr *ExtractionError
			require.True(t, errors.As(err, &xerr))
			assert.Equal(t, domain.FailureSchemaMismatch, xerr.Kind)
			assert.Equal(t, schema.ReasonColumn, xerr.MissingColumn)
			assert.Equal(t, header, xerr.Available)

			f := xerr.Failure()
			assert.Equal(t, "bad.csv", f.Label)
			assert.Contains(t, f.String(), "Something Else")
		})
	}
}

func TestExtractSynthesizesQuantity(t *testing.T) {
	schema := mustSchema(t, platform.Meesho)
	require.False(t, schema.HasQuantity())

	data := csvBytes(t,
		[]string{"SKU", "Detailed Return Reason", "Qty"},
		[]string{"M1", "Not as described", "7"},
		[]string{"M2", "Damaged", "0"},
		[]string{"M1", "Damaged", ""},
	)
	ext, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatCSV, schema, "meesho.csv")
	require.NoError(t, err)
	require.Len(t, ext.Records, 3)
	for _, r := range ext.Records {
		assert.Equal(t, 1, r.Quantity)
		assert.Equal(t, "Meesho", r.Platform)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	data := flipkartCSV(t)
	schema := mustSchema(t, platform.Flipkart)
	x := NewExtractor(nil)

	first, err := x.Extract(bytes.NewReader(data), FormatCSV, schema, "flipkart.csv")
	require.NoError(t, err)
	second, err := x.Extract(bytes.NewReader(data), FormatCSV, schema, "flipkart.csv")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractDropsMalformedQuantities(t *testing.T) {
	data := csvBytes(t,
		[]string{"SKU", "Return Sub-reason", "Quantity"},
		[]string{"A", "Size", "abc"},
		[]string{"B", "Size", "-2"},
		[]string{"C", "Size", "0"},
		[]string{"D", "Size", "2.9"},
		[]string{"E", "Size", "1,200"},
		[]string{"F", "  ", "1"},
	)
	ext, err := NewExtractor(nil).Extract(bytes.NewReader(data), FormatCSV, mustSchema(t, platform.Flipkart), "f.csv")
	require.NoError(t, err)

	assert.Equal(t, []domain.ReturnRecord{
		{SKU: "D", Reason: "Size", Platform: "Flipkart", Quantity: 2},
		{SKU: "E", Reason: "Size", Platform: "Flipkart", Quantity: 1200},
	}, ext.Records)
	assert.Equal(t, 4, ext.RowsDropped)
}

func TestExtractUnreadable(t *testing.T) {
	_, err := NewExtractor(nil).Extract(bytes.NewReader([]byte("garbage")), FormatXLSX, mustSchema(t, platform.Ajio), "ajio.xlsx")
	require.Error(t, err)

	var xerr *ExtractionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, domain.FailureUnreadableSource, xerr.Kind)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"1,000", 1000, true},
		{"3.0", 3, true},
		{"3.7", 3, true},
		{"-1.5", -1, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"ten", 0, false},
		{"1e12", 1000000000000, true},
		{"3000000000", 3000000000, true},
		{"3000000000.0", 3000000000, true},
		{"1e19", 0, false},
		{"-1e19", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseQuantity(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
