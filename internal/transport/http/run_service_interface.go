package http

import (
	"context"

	"returnpulse/internal/dataprocessing"
	"returnpulse/internal/services"
	api "returnpulse/pkg/contracts/api/v1"
	"returnpulse/pkg/contracts/domain"
)

// RunServiceInterface defines the run operations the HTTP layer needs.
type RunServiceInterface interface {
	Ingest(ctx context.Context, sources []dataprocessing.Source) (*services.Run, error)
	Get(ctx context.Context, id string) (*services.Run, error)
	List(ctx context.Context) []api.RunMeta
	Delete(ctx context.Context, id string) error
	Records(ctx context.Context, id string, sel domain.FilterSelection) (domain.Dataset, error)
	Groups(ctx context.Context, id string, dim domain.Dimension, sel domain.FilterSelection, limit int) ([]domain.GroupTotal, error)
	Options(ctx context.Context, id string, dim domain.Dimension) ([]domain.Option, error)
	CrossFilter(ctx context.Context, id string, sel domain.FilterSelection) (dataprocessing.CrossFilterView, error)
}
