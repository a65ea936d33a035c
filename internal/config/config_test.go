package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "returnpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DefaultMaxUploadBytes, cfg.Ingest.MaxUploadBytes)
				assert.Equal(t, DefaultMaxMemberBytes, cfg.Ingest.MaxMemberBytes)
				assert.Equal(t, DefaultMaxRuns, cfg.Ingest.MaxRuns)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
				assert.True(t, cfg.Security.RateLimit.Enabled)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
ingest:
  max_runs: 4
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
				assert.Equal(t, 4, cfg.Ingest.MaxRuns)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"RETURNPULSE_SERVER_PORT":               "7070",
				"RETURNPULSE_INGEST_MAX_MEMBER_BYTES":   "1024",
				"RETURNPULSE_SECURITY_ALLOWED_ORIGINS":  "http://a.test,http://b.test",
				"RETURNPULSE_TELEMETRY_METRIC_EXPORTER": "none",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, int64(1024), cfg.Ingest.MaxMemberBytes)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "none", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"RETURNPULSE_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "invalid env value",
			env:     map[string]string{"RETURNPULSE_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "invalid yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
		{
			name:    "unsupported exporter",
			env:     map[string]string{"RETURNPULSE_TELEMETRY_METRIC_EXPORTER": "otlp"},
			wantErr: "unsupported metric exporter",
		},
		{
			name:    "invalid logging output",
			env:     map[string]string{"RETURNPULSE_LOGGING_OUTPUT": "syslog"},
			wantErr: "invalid logging output",
		},
		{
			name:    "non-positive limits",
			env:     map[string]string{"RETURNPULSE_INGEST_MAX_RUNS": "0"},
			wantErr: "max runs must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RETURNPULSE_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("RETURNPULSE_CONFIG", writeConfigFile(t, "ingest:\n  max_runs: 2\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Ingest.MaxRuns)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, ":8080", cfg.Server.Addr())
}
