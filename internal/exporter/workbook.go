package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"returnpulse/internal/dataprocessing"
	"returnpulse/pkg/contracts/domain"
)

// Sheet names of an exported workbook, in tab order.
const (
	SheetRecords    = "Records"
	SheetBySKU      = "By SKU"
	SheetByReason   = "By Reason"
	SheetByPlatform = "By Platform"
	SheetSources    = "Sources"
)

var groupSheets = []struct {
	name string
	dim  domain.Dimension
}{
	{SheetBySKU, domain.DimensionSKU},
	{SheetByReason, domain.DimensionReason},
	{SheetByPlatform, domain.DimensionPlatform},
}

// WriteWorkbook renders a dataset and its source reports as an xlsx workbook:
// the records, one grouped-sum sheet per dimension, and the per-source
// diagnostics. sources may be nil.
func WriteWorkbook(w io.Writer, ds domain.Dataset, sources []domain.SourceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, gs := range groupSheets {
		if _, err := f.NewSheet(gs.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", gs.name, err)
		}
	}
	if _, err := f.NewSheet(SheetSources); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSources, err)
	}

	records := make([][]interface{}, 0, ds.Len())
	for _, r := range ds.Records {
		records = append(records, []interface{}{r.SKU, r.Reason, r.Platform, r.Quantity})
	}
	if err := streamSheet(f, SheetRecords, headerStyle, toCells(ds.Columns()), records, []float64{24, 36, 18, 10}); err != nil {
		return err
	}

	for _, gs := range groupSheets {
		groups := dataprocessing.GroupSum(ds, gs.dim)
		rows := make([][]interface{}, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []interface{}{g.Key, g.Quantity, g.Count})
		}
		if err := streamSheet(f, gs.name, headerStyle, toCells(groupHeader(gs.dim)), rows, []float64{36, 10, 10}); err != nil {
			return err
		}
	}

	rows := make([][]interface{}, 0, len(sources))
	for _, s := range sources {
		status, detail := sourceStatus(s)
		rows = append(rows, []interface{}{s.Label, s.Archive, s.Platform, s.RowsRead, s.RowsKept, s.RowsDropped, s.Quantity, status, detail})
	}
	if err := streamSheet(f, SheetSources, headerStyle, toCells(sourceHeaders), rows, []float64{36, 24, 18, 10, 10, 12, 10, 22, 48}); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// streamSheet writes a header row and data rows through excelize's stream
// writer, freezing the header and sizing the columns.
func streamSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}, widths []float64) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", sheet, err)
	}
	for i, width := range widths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to size column %d of %s: %w", i+1, sheet, err)
		}
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", sheet, err)
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", sheet, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
