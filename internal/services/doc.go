// Package services implements the business logic layer between the HTTP
// handlers and the ingestion pipeline.
//
// # Available Services
//
//	- RunService: ingests uploaded sources into immutable runs and answers
//	  filter, group, option and cross-filter queries over a stored run
//	- HealthService: liveness, readiness and version information
//
// Runs live in a RunStore. MemoryRunStore keeps a bounded number of runs and
// evicts the oldest when full; nothing is persisted across restarts.
//
// # Error Handling
//
// Services return sentinel errors (ErrRunNotFound, ErrNoSources,
// ErrRunExists) wrapped with context. Handlers translate them into
// RFC 7807 responses; per-source ingestion failures are data, not errors,
// and travel inside the run's IngestResult.
package services
