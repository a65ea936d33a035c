// Package exporter writes unified return datasets out as CSV or xlsx.
//
// WriteRecordsCSV and WriteGroupsCSV emit UTF-8 CSV with a BOM so Excel
// detects the encoding. WriteWorkbook builds an excelize workbook with the
// records, one grouped-sum sheet per dimension, and the per-source
// diagnostics of the run.
//
// FileExporter places exports under the configured exports directory and
// replaces files atomically.
package exporter
