package dataprocessing

import (
	"strings"

	"returnpulse/pkg/contracts/domain"
)

// Unify concatenates per-source record lists in discovery order into one
// dataset. Records that break the canonical invariants are discarded, so the
// result is safe to group and filter. The dataset is never nil.
func Unify(parts ...[]domain.ReturnRecord) domain.Dataset {
	size := 0
	for _, p := range parts {
		size += len(p)
	}

	records := make([]domain.ReturnRecord, 0, size)
	for _, part := range parts {
		for _, r := range part {
			r.SKU = strings.TrimSpace(r.SKU)
			r.Reason = strings.TrimSpace(r.Reason)
			if !r.Valid() {
				continue
			}
			records = append(records, r)
		}
	}
	return domain.NewDataset(records)
}
