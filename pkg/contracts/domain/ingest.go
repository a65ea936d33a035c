package domain

import (
	"fmt"
	"strings"
)

// FailureKind classifies why a source contributed no records.
type FailureKind string

const (
	FailureUnreadableSource     FailureKind = "unreadable_source"
	FailureSchemaMismatch       FailureKind = "schema_mismatch"
	FailureUnrecognizedPlatform FailureKind = "unrecognized_platform"
	FailureCorruptArchive       FailureKind = "corrupt_archive"
	FailureUnsupportedFormat    FailureKind = "unsupported_format"
)

// Failure is a per-source diagnostic shown to the operator.
type Failure struct {
	Kind             FailureKind `json:"kind"`
	Label            string      `json:"label"`
	Archive          string      `json:"archive,omitempty"`
	Message          string      `json:"message"`
	MissingColumn    string      `json:"missing_column,omitempty"`
	AvailableColumns []string    `json:"available_columns,omitempty"`
}

// String renders the failure the way the CLI and logs print it.
func (f Failure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %s", f.Label, f.Kind, f.Message)
	if f.Kind == FailureSchemaMismatch {
		fmt.Fprintf(&b, " (columns found: %s)", strings.Join(f.AvailableColumns, ", "))
	}
	return b.String()
}

// Warning reports whether the failure is a skip rather than an error.
func (f Failure) Warning() bool {
	return f.Kind == FailureUnrecognizedPlatform || f.Kind == FailureUnsupportedFormat
}

// SourceReport describes what one input file or archive member contributed.
type SourceReport struct {
	Label       string   `json:"label"`
	Archive     string   `json:"archive,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	RowsRead    int      `json:"rows_read"`
	RowsKept    int      `json:"rows_kept"`
	RowsDropped int      `json:"rows_dropped"`
	Quantity    int      `json:"quantity"`
	Failure     *Failure `json:"failure,omitempty"`
}

// Contributed reports whether the source produced at least one record.
func (s SourceReport) Contributed() bool {
	return s.Failure == nil && s.RowsKept > 0
}

// IngestResult is everything one ingestion run produced.
type IngestResult struct {
	Dataset  Dataset        `json:"dataset"`
	Sources  []SourceReport `json:"sources"`
	Failures []Failure      `json:"failures"`
	Warnings []string       `json:"warnings"`
}

// RowsDropped sums malformed rows dropped across every source.
func (r IngestResult) RowsDropped() int {
	dropped := 0
	for _, s := range r.Sources {
		dropped += s.RowsDropped
	}
	return dropped
}
