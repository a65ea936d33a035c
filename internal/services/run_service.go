package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"returnpulse/internal/dataprocessing"
	"returnpulse/internal/infrastructure"
	api "returnpulse/pkg/contracts/api/v1"
	"returnpulse/pkg/contracts/domain"
)

// Run is one completed ingestion. It is never modified after it is stored.
type Run struct {
	ID        string
	CreatedAt time.Time
	Duration  time.Duration
	Result    domain.IngestResult
	Summary   domain.Summary
}

// Dataset returns the unified records of the run.
func (r *Run) Dataset() domain.Dataset {
	return r.Result.Dataset
}

// Meta summarizes the run for listings.
func (r *Run) Meta() api.RunMeta {
	contributed := 0
	for _, s := range r.Result.Sources {
		if s.Contributed() {
			contributed++
		}
	}
	return api.RunMeta{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		DurationMS:  r.Duration.Milliseconds(),
		Sources:     len(r.Result.Sources),
		Contributed: contributed,
		Failures:    len(r.Result.Failures),
		Warnings:    len(r.Result.Warnings),
		RowsDropped: r.Result.RowsDropped(),
		Summary:     r.Summary,
	}
}

// RunService ingests uploads into stored runs and answers queries over them.
type RunService struct {
	pipeline *dataprocessing.Pipeline
	store    RunStore
	metrics  *infrastructure.IngestMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunService creates a run service. A nil metrics disables instrumentation.
func NewRunService(pipeline *dataprocessing.Pipeline, store RunStore, metrics *infrastructure.IngestMetrics, logger *slog.Logger) *RunService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = dataprocessing.NewPipeline(logger, dataprocessing.DefaultOptions())
	}
	return &RunService{
		pipeline: pipeline,
		store:    store,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.MeterName),
		logger:   logger.With(slog.String("service", "runs")),
		now:      time.Now,
	}
}

// Ingest runs the pipeline over sources and stores the result as a new run.
// Per-source failures are part of the run, not errors; an error is returned
// only for an empty upload or a cancelled context.
func (s *RunService) Ingest(ctx context.Context, sources []dataprocessing.Source) (*Run, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	ctx, span := s.tracer.Start(ctx, "ingest.run",
		trace.WithAttributes(attribute.Int("ingest.sources", len(sources))))
	defer span.End()

	start := s.now()
	result := s.pipeline.Ingest(ctx, sources)
	duration := s.now().Sub(start)

	if err := ctx.Err(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("ingest cancelled: %w", err)
	}

	run := &Run{
		ID:        uuid.New().String(),
		CreatedAt: start.UTC(),
		Duration:  duration,
		Result:    result,
		Summary:   dataprocessing.Summarize(result.Dataset),
	}

	evicted, err := s.store.Create(run)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("store run: %w", err)
	}
	for _, id := range evicted {
		s.logger.InfoContext(ctx, "Evicted oldest run", slog.String("run_id", id))
	}

	s.metrics.RecordRun(ctx, result, duration)
	if s.metrics != nil {
		s.metrics.RunsStored.Add(ctx, int64(1-len(evicted)))
	}

	span.SetAttributes(
		attribute.String("ingest.run_id", run.ID),
		attribute.Int("ingest.records", result.Dataset.Len()),
		attribute.Int("ingest.failures", len(result.Failures)),
	)
	s.logger.InfoContext(ctx, "Run stored",
		slog.String("run_id", run.ID),
		slog.Int("records", run.Summary.Records),
		slog.Int("total_quantity", run.Summary.TotalQuantity),
		slog.Int("failures", len(result.Failures)),
		slog.Duration("duration", duration))

	return run, nil
}

// Get returns a stored run.
func (s *RunService) Get(ctx context.Context, id string) (*Run, error) {
	run, err := s.store.Get(id)
	if err != nil {
		s.logger.DebugContext(ctx, "Run lookup failed", slog.String("run_id", id))
		return nil, err
	}
	return run, nil
}

// List returns metadata for every stored run, newest first.
func (s *RunService) List(ctx context.Context) []api.RunMeta {
	runs := s.store.List()
	metas := make([]api.RunMeta, 0, len(runs))
	for _, r := range runs {
		metas = append(metas, r.Meta())
	}
	return metas
}

// Delete discards a stored run.
func (s *RunService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RunsStored.Add(ctx, -1)
	}
	s.logger.InfoContext(ctx, "Run deleted", slog.String("run_id", id))
	return nil
}

// Records returns the run's records that match sel, in dataset order.
func (s *RunService) Records(ctx context.Context, id string, sel domain.FilterSelection) (domain.Dataset, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return domain.Dataset{}, err
	}
	return dataprocessing.ApplyFilter(run.Dataset(), sel), nil
}

// Groups returns grouped totals over the filtered records. limit <= 0 keeps
// every group.
func (s *RunService) Groups(ctx context.Context, id string, dim domain.Dimension, sel domain.FilterSelection, limit int) ([]domain.GroupTotal, error) {
	ds, err := s.Records(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	return dataprocessing.Top(dataprocessing.GroupSum(ds, dim), limit), nil
}

// Options returns the selectable values of dim over the whole run.
func (s *RunService) Options(ctx context.Context, id string, dim domain.Dimension) ([]domain.Option, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dataprocessing.OptionsWithCounts(run.Dataset(), dim), nil
}

// CrossFilter returns the dashboard view of the run under sel.
func (s *RunService) CrossFilter(ctx context.Context, id string, sel domain.FilterSelection) (dataprocessing.CrossFilterView, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return dataprocessing.CrossFilterView{}, err
	}
	return dataprocessing.CrossFilter(run.Dataset(), sel), nil
}

// IsNotFound reports whether err means the run does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
