// Package api contains the HTTP contract of the returns service.
// Version v1 represents the current stable API version.
package api

import (
	"returnpulse/pkg/contracts/domain"
)

// MaxGroupLimit bounds the limit query parameter of grouped totals.
const MaxGroupLimit = 10000

// Upload field and form limits of POST /api/ingest.
const (
	IngestFormField     = "files"
	IngestMemoryBytes   = 32 << 20
	ExportNameParameter = "name"
)

// RunRequest addresses one stored run.
type RunRequest struct {
	RunID string `json:"run_id" validate:"required,uuid"`
}

// GroupsRequest selects a grouped-sum table of a run.
type GroupsRequest struct {
	RunID     string                 `json:"run_id" validate:"required,uuid"`
	Dimension string                 `json:"dimension" validate:"required,dimension"`
	Selection domain.FilterSelection `json:"selection"`
	Limit     int                    `json:"limit" validate:"min=0,max=10000"`
}

// OptionsRequest selects the option list of one dimension of a run.
type OptionsRequest struct {
	RunID     string `json:"run_id" validate:"required,uuid"`
	Dimension string `json:"dimension" validate:"required,dimension"`
}

// ExportRequest selects an export of a run's filtered records.
type ExportRequest struct {
	RunID     string                 `json:"run_id" validate:"required,uuid"`
	Format    string                 `json:"format" validate:"required,oneof=csv xlsx"`
	Name      string                 `json:"name,omitempty" validate:"omitempty,filename,max=128"`
	Selection domain.FilterSelection `json:"selection"`
}
