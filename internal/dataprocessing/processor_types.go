package dataprocessing

// Options configures an ingestion pipeline.
type Options struct {
	// MaxMemberBytes bounds one decompressed archive member
	MaxMemberBytes int64
}

// DefaultOptions returns default pipeline options
func DefaultOptions() Options {
	return Options{
		MaxMemberBytes: DefaultMaxMemberBytes,
	}
}
