package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"returnpulse/internal/config"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	store     RunStore
	maxRuns   int
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. paths may be nil when the
// process has no writable directories configured.
func NewHealthService(version string, paths *config.Paths, store RunStore, maxRuns int, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		store:     store,
		maxRuns:   maxRuns,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the registry, run store and data
// directories are usable.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"registry": hs.checkRegistry(),
			"runs":     hs.checkRunStore(),
			"data":     hs.checkDataDirs(),
		},
	}

	for name, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Readiness check failed",
				slog.String("check", name),
				slog.String("message", svc.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns build and runtime version information
func (hs *HealthService) Version() contracts.VersionInfo {
	info := contracts.GetVersionInfo()
	if hs.version != "" {
		info.Version = hs.version
	}
	return info
}

func (hs *HealthService) checkRegistry() ServiceHealth {
	if err := platform.ValidateKeywordOrder(platform.Keywords()); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready", Message: fmt.Sprintf("%d platforms registered", len(platform.All()))}
}

func (hs *HealthService) checkRunStore() ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: "not_ready", Message: "run store not initialized"}
	}
	msg := fmt.Sprintf("%d runs stored", hs.store.Len())
	if hs.maxRuns > 0 {
		msg = fmt.Sprintf("%d of %d runs stored", hs.store.Len(), hs.maxRuns)
	}
	return ServiceHealth{Status: "ready", Message: msg}
}

func (hs *HealthService) checkDataDirs() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "ready", Message: "no data directories configured"}
	}
	for _, dir := range []string{hs.paths.DataDir, hs.paths.ExportsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("directory unavailable: %s", dir)}
		}
		if !info.IsDir() {
			return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("not a directory: %s", dir)}
		}
	}
	return ServiceHealth{Status: "ready", Message: "data directories available"}
}
