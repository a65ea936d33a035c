package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "returnpulse"

	// EnvPrefix namespaces every environment variable, e.g. RETURNPULSE_SERVER_PORT
	EnvPrefix = "RETURNPULSE"

	// Server
	DefaultPort           = 8080
	DefaultRequestTimeout = 2 * time.Minute

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// File Paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultExportsDir = "data/exports"
	DefaultLogsDir    = "logs"

	// Ingestion limits
	DefaultMaxUploadBytes int64 = 256 << 20
	DefaultMaxMemberBytes int64 = 64 << 20
	DefaultMaxRuns              = 32
)
