package dataprocessing

import (
	"fmt"
	"sort"

	"returnpulse/pkg/contracts/domain"
)

// GroupSum totals quantity per value of dim. Groups are ordered by quantity
// descending; equal totals are ordered by key ascending.
func GroupSum(ds domain.Dataset, dim domain.Dimension) []domain.GroupTotal {
	index := make(map[string]int)
	groups := make([]domain.GroupTotal, 0)
	for _, r := range ds.Records {
		key := r.Value(dim)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.GroupTotal{Key: key})
		}
		groups[i].Quantity += r.Quantity
		groups[i].Count++
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Quantity != groups[j].Quantity {
			return groups[i].Quantity > groups[j].Quantity
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// ApplyFilter returns the records matching every set field of sel, in
// dataset order. All constraints are tested together per record, so the
// result does not depend on the order the fields were chosen in.
func ApplyFilter(ds domain.Dataset, sel domain.FilterSelection) domain.Dataset {
	if sel.IsZero() {
		return domain.NewDataset(append([]domain.ReturnRecord(nil), ds.Records...))
	}
	out := make([]domain.ReturnRecord, 0)
	for _, r := range ds.Records {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return domain.NewDataset(out)
}

// DistinctOptions returns the sorted unique values of dim.
func DistinctOptions(ds domain.Dataset, dim domain.Dimension) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range ds.Records {
		v := r.Value(dim)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// OptionsWithCounts pairs every value of dim with its total, in GroupSum
// order, labeled the way selection widgets show them: "value (total)".
func OptionsWithCounts(ds domain.Dataset, dim domain.Dimension) []domain.Option {
	groups := GroupSum(ds, dim)
	opts := make([]domain.Option, 0, len(groups))
	for _, g := range groups {
		opts = append(opts, domain.Option{
			Value:    g.Key,
			Quantity: g.Quantity,
			Label:    fmt.Sprintf("%s (%d)", g.Key, g.Quantity),
		})
	}
	return opts
}

// Top truncates groups to at most n entries; n <= 0 keeps all.
func Top(groups []domain.GroupTotal, n int) []domain.GroupTotal {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// Summarize computes headline numbers for ds.
func Summarize(ds domain.Dataset) domain.Summary {
	skus := make(map[string]struct{})
	reasons := make(map[string]struct{})
	platforms := make(map[string]struct{})
	s := domain.Summary{Records: ds.Len()}
	for _, r := range ds.Records {
		s.TotalQuantity += r.Quantity
		skus[r.SKU] = struct{}{}
		reasons[r.Reason] = struct{}{}
		platforms[r.Platform] = struct{}{}
	}
	s.SKUs = len(skus)
	s.Reasons = len(reasons)
	s.Platforms = len(platforms)
	return s
}

// CrossFilterView is everything a cross-filter screen renders for one selection.
type CrossFilterView struct {
	Selection domain.FilterSelection `json:"selection"`
	// Options are computed over the unfiltered dataset so every choice stays selectable.
	Options map[domain.Dimension][]domain.Option `json:"options"`
	// Groups are computed over the filtered dataset.
	Groups   map[domain.Dimension][]domain.GroupTotal `json:"groups"`
	Summary  domain.Summary                           `json:"summary"`
	Baseline domain.Summary                           `json:"baseline"`
}

// CrossFilter applies sel to ds and builds the option lists and grouped tables
// for all three dimensions. Filtering happens once, against the base dataset.
func CrossFilter(ds domain.Dataset, sel domain.FilterSelection) CrossFilterView {
	filtered := ApplyFilter(ds, sel)
	view := CrossFilterView{
		Selection: sel,
		Options:   make(map[domain.Dimension][]domain.Option, len(domain.Dimensions)),
		Groups:    make(map[domain.Dimension][]domain.GroupTotal, len(domain.Dimensions)),
		Summary:   Summarize(filtered),
		Baseline:  Summarize(ds),
	}
	for _, dim := range domain.Dimensions {
		view.Options[dim] = OptionsWithCounts(ds, dim)
		view.Groups[dim] = GroupSum(filtered, dim)
	}
	return view
}
