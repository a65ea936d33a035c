// Package dataprocessing turns marketplace return exports into one unified
// dataset and answers rollup queries over it.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: reads a CSV or XLSX source into a RawTable
// 2. Extractor: projects a RawTable onto the canonical return record schema
// 3. ArchiveExpander: routes each eligible member of a ZIP bundle through the extractor
// 4. Analytics: grouping, filtering, option lists and cross-filter views
//
// Pipeline ties the first three together for a set of named sources.
//
// # Usage
//
//	result := dataprocessing.NewPipeline(logger, dataprocessing.DefaultOptions()).Ingest(ctx, sources)
//	for _, f := range result.Failures {
//	    fmt.Println(f.String())
//	}
//	bySKU := dataprocessing.GroupSum(result.Dataset, domain.DimensionSKU)
//
// # Data Flow
//
//	Source → Detect platform → Parser → Extractor → Unify → Dataset → Analytics
//
// # Error Handling
//
// A source that cannot be used never aborts a run. Each one is reported as a
// domain.Failure on the IngestResult:
//
//	- unreadable or malformed tables
//	- missing required columns, listing the columns that were found
//	- filenames no platform keyword matches
//	- archives that cannot be opened
package dataprocessing
