package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format is the on-disk shape of an input source.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatZIP     Format = "zip"
	FormatUnknown Format = ""
)

// FormatFromName derives the format from a file or archive member extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	case ".zip":
		return FormatZIP
	}
	return FormatUnknown
}

// Tabular reports whether the format holds a single table.
func (f Format) Tabular() bool {
	return f == FormatCSV || f == FormatXLSX
}

// errNoHeader is returned for sources without a header row.
var errNoHeader = errors.New("no header row")

// RawTable is a parsed source before normalization.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the named header, or -1.
func (t RawTable) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i, column j; short rows read as empty.
func (t RawTable) Cell(i, j int) string {
	row := t.Rows[i]
	if j < 0 || j >= len(row) {
		return ""
	}
	return row[j]
}

// ReadTable parses r as the given format. The first row is the header;
// header names are trimmed and NFC-normalized.
func ReadTable(r io.Reader, format Format) (RawTable, error) {
	var (
		table RawTable
		err   error
	)
	switch format {
	case FormatCSV:
		table, err = readCSV(r)
	case FormatXLSX:
		table, err = readXLSX(r)
	default:
		return RawTable{}, fmt.Errorf("unsupported table format %q", format)
	}
	if err != nil {
		return RawTable{}, err
	}
	for i, h := range table.Headers {
		table.Headers[i] = cleanHeader(h)
	}
	return table, nil
}

func cleanHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

// readCSV decodes UTF-8 (with or without BOM) and UTF-16 exports.
func readCSV(r io.Reader) (RawTable, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, decoder))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return RawTable{}, errNoHeader
	}
	if err != nil {
		return RawTable{}, fmt.Errorf("read csv header: %w", err)
	}

	table := RawTable{Headers: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("read csv row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// readXLSX reads the first worksheet, like a spreadsheet opened without a sheet argument.
func readXLSX(r io.Reader) (RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return RawTable{}, errNoHeader
	}

	table := RawTable{Headers: rows[0]}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
