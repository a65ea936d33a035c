package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"returnpulse/pkg/contracts/domain"
)

// utf8BOM prefixes CSV output so Excel opens it as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	BOMPrefix bool
}

// WriteCSV writes headers and rows to w.
func WriteCSV(w io.Writer, options WriteOptions, rows [][]string) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecordsCSV writes the dataset in canonical column order. An empty
// dataset still produces the header row.
func WriteRecordsCSV(w io.Writer, ds domain.Dataset) error {
	rows := make([][]string, 0, ds.Len())
	for _, r := range ds.Records {
		rows = append(rows, recordRow(r))
	}
	return WriteCSV(w, WriteOptions{Headers: ds.Columns(), BOMPrefix: true}, rows)
}

// WriteGroupsCSV writes a grouped-sum table keyed by dim.
func WriteGroupsCSV(w io.Writer, dim domain.Dimension, groups []domain.GroupTotal) error {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow(g))
	}
	return WriteCSV(w, WriteOptions{Headers: groupHeader(dim), BOMPrefix: true}, rows)
}
