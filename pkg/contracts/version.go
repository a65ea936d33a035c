package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the released version of returnpulse
	Version = "0.3.0"

	// DataFormatVersion identifies the canonical record layout of exports.
	// It changes whenever the column set or the workbook sheets change.
	DataFormatVersion = "v1"

	// APIVersion is the version of the HTTP API
	APIVersion = "v1"
)

// Stamped at build time with -ldflags "-X returnpulse/pkg/contracts.GitCommit=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is served by /api/version.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo collects the build stamp and runtime details.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}

// GetFullVersionString is the text printed by `returnpulse --version`.
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("returnpulse v%s (api %s, data %s, commit %s, built %s, %s %s/%s)",
		info.Version, info.APIVersion, info.DataFormat, info.GitCommit,
		info.BuildTime, info.GoVersion, info.OS, info.Architecture)
}
