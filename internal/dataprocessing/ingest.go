package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

// WarningNoRecords is added to a run in which no source contributed a record.
const WarningNoRecords = "no valid return records found; check the files or the platform column mapping"

// Source is one named input as uploaded or read from disk.
type Source struct {
	Name string
	Data []byte
}

// Pipeline runs sources through detection, extraction and unification.
// It holds no state between runs; every call to Ingest starts from scratch.
type Pipeline struct {
	extractor *Extractor
	expander  *ArchiveExpander
	logger    *slog.Logger
}

// NewPipeline creates a pipeline; a nil logger falls back to slog.Default.
func NewPipeline(logger *slog.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	extractor := NewExtractor(logger)
	return &Pipeline{
		extractor: extractor,
		expander:  NewArchiveExpander(extractor, logger, opts.MaxMemberBytes),
		logger:    logger,
	}
}

// Ingest processes sources sequentially with default options.
func Ingest(ctx context.Context, sources []Source) domain.IngestResult {
	return NewPipeline(nil, DefaultOptions()).Ingest(ctx, sources)
}

// Ingest processes every source in order. Per-source failures are reported in
// the result and never abort the run; an empty input yields an empty dataset.
// Once ctx is done the remaining sources are not read; callers check ctx.Err
// before trusting the partial result.
func (p *Pipeline) Ingest(ctx context.Context, sources []Source) domain.IngestResult {
	p.logger.InfoContext(ctx, "Starting ingestion", slog.Int("sources", len(sources)))

	var outcomes []Outcome
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			p.logger.WarnContext(ctx, "Ingestion cancelled",
				slog.Int("processed", len(outcomes)),
				slog.String("error", err.Error()))
			break
		}
		switch format := FormatFromName(src.Name); {
		case format == FormatZIP:
			res := p.expander.Expand(src.Data, src.Name)
			if res.Failure != nil {
				outcomes = append(outcomes, Outcome{Report: domain.SourceReport{Label: src.Name, Failure: res.Failure}})
				continue
			}
			outcomes = append(outcomes, res.Outcomes...)
		case format.Tabular():
			outcomes = append(outcomes, p.file(ctx, src, format))
		default:
			p.logger.WarnContext(ctx, "Skipping file (unsupported format)", slog.String("label", src.Name))
			outcomes = append(outcomes, Outcome{Report: domain.SourceReport{
				Label: src.Name,
				Failure: &domain.Failure{
					Kind:    domain.FailureUnsupportedFormat,
					Label:   src.Name,
					Message: "expected .csv, .xlsx or .zip",
				},
			}})
		}
	}

	result := domain.IngestResult{
		Sources:  make([]domain.SourceReport, 0, len(outcomes)),
		Failures: []domain.Failure{},
		Warnings: []string{},
	}
	parts := make([][]domain.ReturnRecord, 0, len(outcomes))
	for _, o := range outcomes {
		result.Sources = append(result.Sources, o.Report)
		if o.Report.Failure != nil {
			result.Failures = append(result.Failures, *o.Report.Failure)
		}
		parts = append(parts, o.Records)
	}
	result.Dataset = Unify(parts...)

	for _, f := range result.Failures {
		if f.Warning() {
			result.Warnings = append(result.Warnings, f.String())
		}
	}
	if result.Dataset.IsEmpty() {
		result.Warnings = append(result.Warnings, WarningNoRecords)
		p.logger.WarnContext(ctx, "Ingestion produced no records",
			slog.Int("sources", len(sources)),
			slog.Int("failures", len(result.Failures)))
	}

	p.logger.InfoContext(ctx, "Ingestion complete",
		slog.Int("sources", len(result.Sources)),
		slog.Int("records", result.Dataset.Len()),
		slog.Int("total_quantity", result.Dataset.TotalQuantity()),
		slog.Int("rows_dropped", result.RowsDropped()),
		slog.Int("failures", len(result.Failures)))

	return result
}

func (p *Pipeline) file(ctx context.Context, src Source, format Format) Outcome {
	report := domain.SourceReport{Label: src.Name}

	id, ok := platform.Detect(src.Name)
	if !ok {
		p.logger.WarnContext(ctx, "Skipping file (platform not recognized)", slog.String("label", src.Name))
		report.Failure = &domain.Failure{
			Kind:    domain.FailureUnrecognizedPlatform,
			Label:   src.Name,
			Message: "platform not recognized",
		}
		return Outcome{Report: report}
	}
	schema, _ := id.Schema()
	report.Platform = schema.DisplayName

	ext, err := p.extractor.Extract(bytes.NewReader(src.Data), format, schema, src.Name)
	if err != nil {
		fail := failureOf(err, src.Name)
		report.Failure = &fail
		logFailure(p.logger, fail)
		return Outcome{Report: report}
	}

	report.RowsRead = ext.RowsRead
	report.RowsKept = len(ext.Records)
	report.RowsDropped = ext.RowsDropped
	report.Quantity = ext.Quantity()
	p.logger.InfoContext(ctx, "Processed file",
		slog.String("label", src.Name),
		slog.String("platform", schema.DisplayName),
		slog.Int("rows_kept", report.RowsKept),
		slog.Int("rows_dropped", report.RowsDropped))
	return Outcome{Report: report, Records: ext.Records}
}

// failureOf turns an extraction error into an operator-facing failure.
func failureOf(err error, label string) domain.Failure {
	var xerr *ExtractionError
	if errors.As(err, &xerr) {
		return xerr.Failure()
	}
	return domain.Failure{
		Kind:    domain.FailureUnreadableSource,
		Label:   label,
		Message: fmt.Sprint(err),
	}
}

func logFailure(logger *slog.Logger, f domain.Failure) {
	attrs := []any{
		slog.String("label", f.Label),
		slog.String("kind", string(f.Kind)),
		slog.String("error", f.Message),
	}
	if f.Archive != "" {
		attrs = append(attrs, slog.String("archive", f.Archive))
	}
	if f.Kind == domain.FailureSchemaMismatch {
		attrs = append(attrs, slog.Any("available_columns", f.AvailableColumns))
	}
	logger.Error("Failed to process source", attrs...)
}
