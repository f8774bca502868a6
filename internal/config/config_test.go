package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAddr, EnvAllowedOrigins, EnvUpstreamURL, EnvUpstreamTimeout,
		EnvLogLevel, EnvLogFormat, EnvSamplePoints, EnvSampleStart, EnvSampleMaxPoints,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", `
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:5173"]
upstream:
  url: "http://forecaster:8000"
  timeout: 15s
log:
  level: debug
  format: text
sample:
  points: 365
`)

	c, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.AllowedOrigins)
	assert.Equal(t, "http://forecaster:8000", c.Upstream.URL)
	assert.Equal(t, 15*time.Second, c.Upstream.Timeout)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, 365, c.Sample.Points)
	assert.Equal(t, DefaultSampleStart, c.Sample.StartValue)
	assert.Equal(t, DefaultSampleMaxPoints, c.Sample.MaxPoints)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "server:\n  addr: \":9090\"\n")

	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvAllowedOrigins, "http://a.example, http://b.example,")
	t.Setenv(EnvUpstreamTimeout, "2m")
	t.Setenv(EnvSamplePoints, "10")
	t.Setenv(EnvSampleStart, "99.5")
	t.Setenv(EnvSampleMaxPoints, "500")

	c, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, ":7070", c.Server.Addr)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, c.Server.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, c.Upstream.Timeout)
	assert.Equal(t, 10, c.Sample.Points)
	assert.Equal(t, 99.5, c.Sample.StartValue)
	assert.Equal(t, 500, c.Sample.MaxPoints)
}

func TestLoadErrors(t *testing.T) {
	testData := map[string]struct {
		env  map[string]string
		yaml string
	}{
		"bad timeout env":    {env: map[string]string{EnvUpstreamTimeout: "soon"}},
		"bad points env":     {env: map[string]string{EnvSamplePoints: "many"}},
		"bad start env":      {env: map[string]string{EnvSampleStart: "high"}},
		"unknown log level":  {env: map[string]string{EnvLogLevel: "verbose"}},
		"unknown format":     {env: map[string]string{EnvLogFormat: "xml"}},
		"zero points":        {yaml: "sample:\n  points: 0\n"},
		"bad max points env": {env: map[string]string{EnvSampleMaxPoints: "lots"}},
		"max below default":  {yaml: "sample:\n  points: 50\n  max_points: 10\n"},
		"negative timeout":   {yaml: "upstream:\n  timeout: -1s\n"},
		"empty url":          {yaml: "upstream:\n  url: \"\"\n"},
		"malformed yaml":     {yaml: "server: [\n"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range td.env {
				t.Setenv(k, v)
			}
			var path string
			if td.yaml != "" {
				path = writeFile(t, "config.yaml", td.yaml)
			}
			_, err := Load(path)
			assert.NotNil(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateNil(t *testing.T) {
	var c *Config
	assert.NotNil(t, c.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// variables already present, even empty ones, win over the file
	require.Nil(t, os.Unsetenv(EnvUpstreamURL))
	path := writeFile(t, ".env", EnvUpstreamURL+"=http://dotenv:8000\n")

	require.Nil(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))

	c, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, "http://dotenv:8000", c.Upstream.URL)
}
