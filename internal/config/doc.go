// Package config loads returnpulse configuration.
//
// # Configuration Sources
//
// Configuration is layered in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// Variables are namespaced RETURNPULSE_<SECTION>_<FIELD>:
//
//	RETURNPULSE_SERVER_PORT=8080
//	RETURNPULSE_LOGGING_LEVEL=debug
//	RETURNPULSE_INGEST_MAX_UPLOAD_BYTES=268435456
//	RETURNPULSE_TELEMETRY_METRIC_EXPORTER=none
//
// RETURNPULSE_CONFIG names the YAML file when no path is passed to Load.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
package config
