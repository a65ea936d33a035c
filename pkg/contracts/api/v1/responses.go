package api

import (
	"time"

	"returnpulse/pkg/contracts/domain"
)

// RunMeta is the listing view of a run.
type RunMeta struct {
	ID          string         `json:"run_id"`
	CreatedAt   time.Time      `json:"created_at"`
	DurationMS  int64          `json:"duration_ms"`
	Sources     int            `json:"sources"`
	Contributed int            `json:"contributed"`
	Failures    int            `json:"failures"`
	Warnings    int            `json:"warnings"`
	RowsDropped int            `json:"rows_dropped"`
	Summary     domain.Summary `json:"summary"`
}

// IngestResponse is returned by POST /api/ingest.
type IngestResponse struct {
	RunID    string                `json:"run_id"`
	Summary  domain.Summary        `json:"summary"`
	Sources  []domain.SourceReport `json:"sources"`
	Failures []domain.Failure      `json:"failures"`
	Warnings []string              `json:"warnings"`
}

// RunListResponse lists stored runs, newest first.
type RunListResponse struct {
	Runs  []RunMeta `json:"runs"`
	Count int       `json:"count"`
}

// RunResponse is the detail view of one run.
type RunResponse struct {
	RunMeta
	SourceReports []domain.SourceReport `json:"source_reports"`
	FailureList   []domain.Failure      `json:"failure_list"`
	WarningList   []string              `json:"warning_list"`
}

// RecordsResponse carries the records matching a selection.
type RecordsResponse struct {
	RunID     string                 `json:"run_id"`
	Selection domain.FilterSelection `json:"selection"`
	Columns   []string               `json:"columns"`
	Records   []domain.ReturnRecord  `json:"records"`
	Count     int                    `json:"count"`
}

// GroupsResponse carries a grouped-sum table.
type GroupsResponse struct {
	RunID     string                 `json:"run_id"`
	Dimension domain.Dimension       `json:"dimension"`
	Selection domain.FilterSelection `json:"selection"`
	Groups    []domain.GroupTotal    `json:"groups"`
}

// OptionsResponse carries the selectable values of one dimension.
type OptionsResponse struct {
	RunID     string           `json:"run_id"`
	Dimension domain.Dimension `json:"dimension"`
	Options   []domain.Option  `json:"options"`
}

// PlatformInfo describes one registered platform.
type PlatformInfo struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	SKUColumn      string   `json:"sku_column"`
	ReasonColumn   string   `json:"reason_column"`
	QuantityColumn string   `json:"quantity_column,omitempty"`
	Keywords       []string `json:"keywords"`
}

// PlatformsResponse lists the platform registry in display order.
type PlatformsResponse struct {
	Platforms []PlatformInfo `json:"platforms"`
}
