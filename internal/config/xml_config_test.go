package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config file should be written")
	assert.Equal(t, 20, cfg.Processing.TopN)
	assert.Equal(t, "memory", cfg.Processing.Engine)
	assert.Equal(t, filepath.Join(dir, "profiles.yaml"), cfg.Profiles.Path)
	assert.Equal(t, "0.0.0.0:8089", cfg.GetServerAddr())
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())

	// The written file round-trips.
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Processing, again.Processing)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := `<?xml version="1.0" encoding="UTF-8"?>
<LaneDashboard>
  <Server>
    <Port>9000</Port>
  </Server>
  <Processing>
    <TopN>10</TopN>
    <IncludeMatrix>true</IncludeMatrix>
    <Engine>duckdb</Engine>
  </Processing>
  <Profiles>
    <Path>/etc/lanes/profiles.yaml</Path>
  </Profiles>
</LaneDashboard>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Processing.TopN)
	assert.True(t, cfg.Processing.IncludeMatrix)
	assert.Equal(t, "duckdb", cfg.Processing.Engine)
	assert.Equal(t, "/etc/lanes/profiles.yaml", cfg.Profiles.Path)
	// Elements missing from the file keep their defaults.
	assert.Equal(t, 50, cfg.Processing.MaxSessions)
	assert.Equal(t, "info", cfg.Advanced.LogLevel)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LANES_SERVER_PORT", "7001")
	t.Setenv("LANES_PROCESSING_TOP_N", "5")
	t.Setenv("LANES_PROCESSING_ENGINE", "duckdb")
	t.Setenv("LANES_ADVANCED_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Processing.TopN)
	assert.Equal(t, "duckdb", cfg.Processing.Engine)
	assert.Equal(t, "debug", cfg.Advanced.LogLevel)
	assert.Equal(t, 30, cfg.Server.ReadTimeout, "unset variables keep file values")
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad engine", env: map[string]string{"LANES_PROCESSING_ENGINE": "spark"}},
		{name: "non-numeric override", env: map[string]string{"LANES_SERVER_PORT": "eighty"}},
		{name: "zero top", env: map[string]string{"LANES_PROCESSING_TOP_N": "0"}},
		{name: "malformed xml", file: "<LaneDashboard><Server>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), DefaultFileName)
			if tt.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
