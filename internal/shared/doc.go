// Package shared holds helpers used by more than one returnpulse package.
//
// The testutil subpackage captures slog output in memory so tests can assert
// on the diagnostics the pipeline, services and handlers emit:
//
//	logger, logs := testutil.NewTestLogger(t)
//	pipeline := dataprocessing.NewPipeline(logger, dataprocessing.DefaultOptions())
//	pipeline.Ingest(ctx, sources)
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Skipping file (platform not recognized)")
//
// Nothing here carries domain logic.
package shared
