package domain

import (
	"fmt"
	"slices"
)

// Canonical column names of a normalized return record.
const (
	ColumnSKU      = "SKU"
	ColumnReason   = "Reason"
	ColumnPlatform = "Platform"
	ColumnQuantity = "Quantity"
)

// CanonicalColumns is the fixed column order every dataset exposes.
var CanonicalColumns = []string{ColumnSKU, ColumnReason, ColumnPlatform, ColumnQuantity}

// ReturnRecord is one normalized return line.
// Every field is set and Quantity is always positive.
type ReturnRecord struct {
	SKU      string `json:"sku" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
	Platform string `json:"platform" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// Valid reports whether the record satisfies the canonical invariants.
func (r ReturnRecord) Valid() bool {
	return r.SKU != "" && r.Reason != "" && r.Platform != "" && r.Quantity > 0
}

// Value returns the record's value for the given dimension.
func (r ReturnRecord) Value(dim Dimension) string {
	switch dim {
	case DimensionSKU:
		return r.SKU
	case DimensionReason:
		return r.Reason
	case DimensionPlatform:
		return r.Platform
	default:
		return ""
	}
}

// Dataset is the unified, ordered record set produced by one ingestion run.
// Records is never nil; an empty dataset still carries the canonical schema.
type Dataset struct {
	Records []ReturnRecord `json:"records"`
}

// NewDataset wraps records in a dataset, replacing nil with an empty slice.
func NewDataset(records []ReturnRecord) Dataset {
	if records == nil {
		records = []ReturnRecord{}
	}
	return Dataset{Records: records}
}

// Columns returns the canonical column names.
func (d Dataset) Columns() []string {
	return slices.Clone(CanonicalColumns)
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// IsEmpty reports whether the dataset has no records.
func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}

// TotalQuantity sums the quantity of every record.
func (d Dataset) TotalQuantity() int {
	total := 0
	for _, r := range d.Records {
		total += r.Quantity
	}
	return total
}

// Dimension names a grouping and filtering key of a return record.
type Dimension string

const (
	DimensionSKU      Dimension = "sku"
	DimensionReason   Dimension = "reason"
	DimensionPlatform Dimension = "platform"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{DimensionSKU, DimensionReason, DimensionPlatform}

// ParseDimension converts a user supplied name into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimensionSKU, DimensionReason, DimensionPlatform:
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q (want sku, reason or platform)", s)
}

// Title returns the column heading used for the dimension.
func (d Dimension) Title() string {
	switch d {
	case DimensionSKU:
		return ColumnSKU
	case DimensionReason:
		return ColumnReason
	case DimensionPlatform:
		return ColumnPlatform
	}
	return string(d)
}

// FilterSelection is a conjunctive query over a dataset.
// Zero-valued fields do not constrain the result.
type FilterSelection struct {
	Platforms []string `json:"platforms,omitempty" validate:"omitempty,dive,required,max=128"`
	SKU       string   `json:"sku,omitempty" validate:"max=256"`
	Reason    string   `json:"reason,omitempty" validate:"max=512"`
}

// IsZero reports whether the selection constrains nothing.
func (s FilterSelection) IsZero() bool {
	return len(s.Platforms) == 0 && s.SKU == "" && s.Reason == ""
}

// Matches reports whether a record satisfies every set field of the selection.
func (s FilterSelection) Matches(r ReturnRecord) bool {
	if len(s.Platforms) > 0 && !slices.Contains(s.Platforms, r.Platform) {
		return false
	}
	if s.SKU != "" && r.SKU != s.SKU {
		return false
	}
	if s.Reason != "" && r.Reason != s.Reason {
		return false
	}
	return true
}

// GroupTotal is one row of a grouped-sum view.
type GroupTotal struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
	Count    int    `json:"count"`
}

// Option is a selectable value labeled with its current total.
type Option struct {
	Value    string `json:"value"`
	Quantity int    `json:"quantity"`
	Label    string `json:"label"`
}

// Summary holds headline numbers for a dataset.
type Summary struct {
	Records       int `json:"records"`
	TotalQuantity int `json:"total_quantity"`
	SKUs          int `json:"skus"`
	Reasons       int `json:"reasons"`
	Platforms     int `json:"platforms"`
}
