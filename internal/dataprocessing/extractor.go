package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	apperrors "returnpulse/internal/errors"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

// ExtractionError aborts the contribution of a single source.
type ExtractionError struct {
	Kind          domain.FailureKind
	Label         string
	MissingColumn string
	Available     []string
	Err           error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	switch e.Kind {
	case domain.FailureSchemaMismatch:
		return fmt.Sprintf("%s: column %q not found (columns found: %s)",
			e.Label, e.MissingColumn, strings.Join(e.Available, ", "))
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Label, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Label, e.Kind)
	}
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Failure converts the error into the diagnostic reported to the operator.
func (e *ExtractionError) Failure() domain.Failure {
	f := domain.Failure{
		Kind:             e.Kind,
		Label:            e.Label,
		MissingColumn:    e.MissingColumn,
		AvailableColumns: e.Available,
	}
	switch {
	case e.Kind == domain.FailureSchemaMismatch:
		f.Message = fmt.Sprintf("column %q not found", e.MissingColumn)
	case e.Err != nil:
		f.Message = e.Err.Error()
	default:
		f.Message = string(e.Kind)
	}
	return f
}

func unreadable(label string, cause error) *ExtractionError {
	return &ExtractionError{
		Kind:  domain.FailureUnreadableSource,
		Label: label,
		Err:   apperrors.NewParsingError("cannot read table", cause).WithContext("label", label),
	}
}

// Extraction is the normalized output of one source.
type Extraction struct {
	Records     []domain.ReturnRecord
	RowsRead    int
	RowsDropped int
}

// Quantity sums the extracted quantities.
func (e Extraction) Quantity() int {
	total := 0
	for _, r := range e.Records {
		total += r.Quantity
	}
	return total
}

// Extractor maps one platform export onto canonical return records.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor; a nil logger falls back to slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses r and normalizes it against schema. label names the source
// in diagnostics. A returned error is always an *ExtractionError.
func (e *Extractor) Extract(r io.Reader, format Format, schema platform.Schema, label string) (Extraction, error) {
	table, err := ReadTable(r, format)
	if err != nil {
		return Extraction{}, unreadable(label, err)
	}
	return e.Normalize(table, schema, label)
}

// Normalize projects a parsed table onto the canonical schema. Rows with an
// empty sku or reason, or a quantity that is not a positive number, are
// dropped and counted rather than failing the source.
func (e *Extractor) Normalize(table RawTable, schema platform.Schema, label string) (Extraction, error) {
	skuCol, reasonCol, qtyCol := -1, -1, -1
	for i, name := range schema.RequiredColumns() {
		idx := table.Column(name)
		if idx < 0 {
			return Extraction{}, &ExtractionError{
				Kind:          domain.FailureSchemaMismatch,
				Label:         label,
				MissingColumn: name,
				Available:     slices.Clone(table.Headers),
				Err:           apperrors.NewAppError(apperrors.ErrTypeValidation, "required column missing", nil).WithContext("column", name),
			}
		}
		switch i {
		case 0:
			skuCol = idx
		case 1:
			reasonCol = idx
		case 2:
			qtyCol = idx
		}
	}

	out := Extraction{
		Records:  make([]domain.ReturnRecord, 0, len(table.Rows)),
		RowsRead: len(table.Rows),
	}
	for i := range table.Rows {
		sku := strings.TrimSpace(table.Cell(i, skuCol))
		reason := strings.TrimSpace(table.Cell(i, reasonCol))

		qty := 1
		if qtyCol >= 0 {
			var ok bool
			qty, ok = ParseQuantity(table.Cell(i, qtyCol))
			if !ok {
				out.RowsDropped++
				continue
			}
		}

		rec := domain.ReturnRecord{SKU: sku, Reason: reason, Platform: schema.DisplayName, Quantity: qty}
		if !rec.Valid() {
			out.RowsDropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}

	e.logger.Debug("Source normalized",
		slog.String("label", label),
		slog.String("platform", string(schema.ID)),
		slog.Int("rows_read", out.RowsRead),
		slog.Int("rows_kept", len(out.Records)),
		slog.Int("rows_dropped", out.RowsDropped))

	return out, nil
}

// ParseQuantity coerces a cell to an integer quantity. Thousands separators
// are ignored and fractional values are truncated toward zero.
func ParseQuantity(cell string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if limit := math.Ldexp(1, strconv.IntSize-1); f >= limit || f < -limit {
		return 0, false
	}
	return int(f), true
}
