package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr            = ":8080"
	DefaultUpstreamURL     = "http://127.0.0.1:8000"
	DefaultUpstreamTimeout = 60 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultSamplePoints    = 100
	DefaultSampleStart     = 15000.0
	DefaultSampleMaxPoints = 10000
)

const (
	EnvAddr            = "INSIGHTS_ADDR"
	EnvAllowedOrigins  = "INSIGHTS_ALLOWED_ORIGINS"
	EnvUpstreamURL     = "INSIGHTS_UPSTREAM_URL"
	EnvUpstreamTimeout = "INSIGHTS_UPSTREAM_TIMEOUT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvSamplePoints    = "INSIGHTS_SAMPLE_POINTS"
	EnvSampleStart     = "INSIGHTS_SAMPLE_START"
	EnvSampleMaxPoints = "INSIGHTS_SAMPLE_MAX_POINTS"
)

var logLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
	"panic": true,
}

// Config is the on-disk configuration shape (YAML), overlaid by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Log      LogConfig      `yaml:"log"`
	Sample   SampleConfig   `yaml:"sample"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// UpstreamConfig points at the forecasting service
type UpstreamConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SampleConfig holds the defaults of the synthetic sample download. MaxPoints caps the points
// a caller may request.
type SampleConfig struct {
	Points     int     `yaml:"points"`
	StartValue float64 `yaml:"start_value"`
	MaxPoints  int     `yaml:"max_points"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
		Upstream: UpstreamConfig{
			URL:     DefaultUpstreamURL,
			Timeout: DefaultUpstreamTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Sample: SampleConfig{
			Points:     DefaultSamplePoints,
			StartValue: DefaultSampleStart,
			MaxPoints:  DefaultSampleMaxPoints,
		},
	}
}

// LoadDotEnv loads variables from the given .env files into the process environment. Missing
// files are ignored and variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("unable to load %s, %w", path, err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked applies the YAML file at path, if any, and then the environment over the
// defaults, but does not validate the result.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("unable to parse config, %w", err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	if origins := os.Getenv(EnvAllowedOrigins); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	c.Upstream.URL = getEnv(EnvUpstreamURL, c.Upstream.URL)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)

	if v := os.Getenv(EnvUpstreamTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s, %w", EnvUpstreamTimeout, err)
		}
		c.Upstream.Timeout = d
	}
	if v := os.Getenv(EnvSamplePoints); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s, %w", EnvSamplePoints, err)
		}
		c.Sample.Points = n
	}
	if v := os.Getenv(EnvSampleStart); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s, %w", EnvSampleStart, err)
		}
		c.Sample.StartValue = f
	}
	if v := os.Getenv(EnvSampleMaxPoints); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s, %w", EnvSampleMaxPoints, err)
		}
		c.Sample.MaxPoints = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	if c.Sample.Points <= 0 {
		return fmt.Errorf("sample.points must be positive, got %d", c.Sample.Points)
	}
	if c.Sample.MaxPoints < c.Sample.Points {
		return fmt.Errorf("sample.max_points must be at least sample.points, got %d", c.Sample.MaxPoints)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
