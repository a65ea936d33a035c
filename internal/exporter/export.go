package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"returnpulse/internal/config"
	"returnpulse/pkg/contracts/domain"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes ds in format f. CSV carries the records only; the workbook
// adds grouped sheets and sources.
func (f Format) Write(w io.Writer, ds domain.Dataset, sources []domain.SourceReport) error {
	if f == FormatXLSX {
		return WriteWorkbook(w, ds, sources)
	}
	return WriteRecordsCSV(w, ds)
}

// FileExporter writes exports into the configured exports directory.
type FileExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewFileExporter creates a new file exporter instance
func NewFileExporter(paths *config.Paths, logger *slog.Logger) *FileExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExporter{paths: paths, logger: logger}
}

// Export writes ds under name in the exports directory and returns the full
// path. The file is written to a temporary name and renamed into place.
func (e *FileExporter) Export(name string, format Format, ds domain.Dataset, sources []domain.SourceReport) (string, error) {
	fullPath, err := e.paths.ExportPath(name)
	if err != nil {
		return "", err
	}
	return fullPath, WriteFile(fullPath, format, ds, sources, e.logger)
}

// WriteFile writes ds to path in format, creating parent directories.
func WriteFile(path string, format Format, ds domain.Dataset, sources []domain.SourceReport, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(format)),
		slog.Int("record_count", ds.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := format.Write(tmp, ds, sources); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
