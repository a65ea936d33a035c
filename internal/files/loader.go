package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"returnpulse/internal/dataprocessing"
)

// ErrInputTooLarge is returned when the loaded sources exceed the byte budget.
var ErrInputTooLarge = errors.New("input exceeds the configured size limit")

// Loader reads sources from disk.
type Loader struct {
	discovery *Discovery
	maxBytes  int64
	logger    *slog.Logger
}

// NewLoader creates a loader. maxBytes caps the combined size of everything
// one call reads; zero or less disables the cap.
func NewLoader(maxBytes int64, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: NewDiscovery(""),
		maxBytes:  maxBytes,
		logger:    logger.With(slog.String("component", "file_loader")),
	}
}

// LoadSources reads every path in order. Directories expand to their
// supported files in name order. Files named explicitly are read whatever
// their extension so the pipeline can report unsupported formats.
func (l *Loader) LoadSources(ctx context.Context, paths []string) ([]dataprocessing.Source, error) {
	var (
		sources []dataprocessing.Source
		total   int64
	)
	read := func(path, name string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		total += int64(len(data))
		if l.maxBytes > 0 && total > l.maxBytes {
			return fmt.Errorf("%w: %d bytes read, limit %d", ErrInputTooLarge, total, l.maxBytes)
		}
		l.logger.DebugContext(ctx, "Loaded source",
			slog.String("path", path),
			slog.Int("bytes", len(data)))
		sources = append(sources, dataprocessing.Source{Name: name, Data: data})
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := read(p, filepath.Base(p)); err != nil {
				return nil, err
			}
			continue
		}

		found, err := l.discovery.FindSources(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			l.logger.WarnContext(ctx, "No supported files in directory", slog.String("dir", p))
		}
		for _, f := range found {
			if err := read(f.Path, f.Name); err != nil {
				return nil, err
			}
		}
	}

	l.logger.InfoContext(ctx, "Sources loaded",
		slog.Int("count", len(sources)),
		slog.Int64("bytes", total))
	return sources, nil
}

// LoadSources reads paths with no size cap.
func LoadSources(ctx context.Context, paths []string) ([]dataprocessing.Source, error) {
	return NewLoader(0, nil).LoadSources(ctx, paths)
}
