package exporter

import (
	"strconv"

	"returnpulse/pkg/contracts/domain"
)

// Column headings of the non-record tables.
var (
	groupHeaders  = []string{"Quantity", "Records"}
	sourceHeaders = []string{"Source", "Archive", "Platform", "Rows Read", "Rows Kept", "Rows Dropped", "Quantity", "Status", "Detail"}
)

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

func recordRow(r domain.ReturnRecord) []string {
	return []string{r.SKU, r.Reason, r.Platform, formatInt(r.Quantity)}
}

func groupHeader(dim domain.Dimension) []string {
	return append([]string{dim.Title()}, groupHeaders...)
}

func groupRow(g domain.GroupTotal) []string {
	return []string{g.Key, formatInt(g.Quantity), formatInt(g.Count)}
}

// sourceStatus renders a source's outcome as status and detail columns.
func sourceStatus(s domain.SourceReport) (string, string) {
	if s.Failure == nil {
		return "ok", ""
	}
	return string(s.Failure.Kind), s.Failure.Message
}
