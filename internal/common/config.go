// Package common provides shared configuration and fetch accounting for the
// VLF monitor commands.
package common

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Site is the receiver location used for solar geometry markers.
type Site struct {
	Name      string  `yaml:"name"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Config holds configuration for all subcommands.
type Config struct {
	Receiver    string `yaml:"receiver"`
	Transmitter string `yaml:"transmitter"`

	BaseURL       string        `yaml:"base_url"`
	GOESFluxURL   string        `yaml:"goes_flux_url"`
	GOESFlaresURL string        `yaml:"goes_flares_url"`
	HEKURL        string        `yaml:"hek_url"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`

	// NCEI GOES-R XRS science archive, used once the 7-day feed no
	// longer covers the window.
	GOESArchiveURL     string `yaml:"goes_archive_url"`
	GOESSatellite      int    `yaml:"goes_satellite"`
	GOESArchiveVersion string `yaml:"goes_archive_version"`

	Output  string `yaml:"output"`
	DataDir string `yaml:"data_dir"`

	Site            Site          `yaml:"site"`
	SmoothWindow    int           `yaml:"smooth_window"`
	SmoothPolyorder int           `yaml:"smooth_polyorder"`
	MinSignal       float64       `yaml:"min_signal"`
	FlareThreshold  string        `yaml:"flare_threshold"`
	MatchTolerance  time.Duration `yaml:"match_tolerance"`

	ClickHouseHost     string `yaml:"clickhouse_host"`
	ClickHouseDatabase string `yaml:"clickhouse_database"`
	ClickHouseUser     string `yaml:"clickhouse_user"`
	ClickHousePassword string `yaml:"-"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns configuration with sensible defaults, overridden by
// environment variables where set.
func DefaultConfig() *Config {
	return &Config{
		Receiver:      getEnv("VLF_RECEIVER", "dunsink"),
		Transmitter:   getEnv("VLF_TRANSMITTER", "dho38"),
		BaseURL:       getEnv("VLF_BASE_URL", "https://vlf.ap.dias.ie/data"),
		GOESFluxURL:   getEnv("GOES_FLUX_URL", "https://services.swpc.noaa.gov/json/goes/primary/xrays-7-day.json"),
		GOESFlaresURL: getEnv("GOES_FLARES_URL", "https://services.swpc.noaa.gov/json/goes/primary/xray-flares-latest.json"),
		HEKURL:        getEnv("HEK_URL", "https://www.lmsal.com/hek/her"),
		HTTPTimeout:   getEnvDuration("VLF_HTTP_TIMEOUT", 60*time.Second),
		Output:        getEnv("VLF_OUTPUT", "vlf_live.png"),
		DataDir:       getEnv("VLF_DATA_DIR", filepath.Join(xdg.DataHome, "vlf-monitor")),
		Site: Site{
			Name:      "Dublin",
			Country:   "Ireland",
			Latitude:  53.3871,
			Longitude: -6.3375,
		},
		SmoothWindow:       getEnvInt("VLF_SMOOTH_WINDOW", 601),
		SmoothPolyorder:    3,
		MinSignal:          30,
		FlareThreshold:     getEnv("VLF_FLARE_THRESHOLD", "C6.0"),
		MatchTolerance:     2 * time.Minute,
		GOESArchiveURL:     getEnv("GOES_ARCHIVE_URL", "https://data.ngdc.noaa.gov/platforms/solar-space-observing-satellites/goes"),
		GOESSatellite:      getEnvInt("GOES_SATELLITE", 16),
		GOESArchiveVersion: getEnv("GOES_ARCHIVE_VERSION", "v2-2-0"),
		ClickHouseHost:     getEnv("CLICKHOUSE_HOST", "127.0.0.1:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "vlf"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// DefaultConfigPath is the YAML overlay location when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "vlf-monitor", "config.yaml")
}

// Load returns DefaultConfig overlaid with the YAML file at path. An empty
// path falls back to DefaultConfigPath, which is allowed to be absent.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Receiver == "" || c.Transmitter == "" {
		return fmt.Errorf("receiver and transmitter are required")
	}
	if c.SmoothWindow < 1 || c.SmoothWindow%2 == 0 {
		return fmt.Errorf("smooth_window must be a positive odd number, got %d", c.SmoothWindow)
	}
	if c.SmoothPolyorder < 0 || c.SmoothPolyorder >= c.SmoothWindow {
		return fmt.Errorf("smooth_polyorder must be in [0, %d), got %d", c.SmoothWindow, c.SmoothPolyorder)
	}
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return fmt.Errorf("site latitude out of range: %v", c.Site.Latitude)
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return fmt.Errorf("site longitude out of range: %v", c.Site.Longitude)
	}
	if c.GOESSatellite < 16 {
		return fmt.Errorf("goes_satellite must be a GOES-R series number (16 or later), got %d", c.GOESSatellite)
	}
	for name, raw := range map[string]string{
		"base_url":         c.BaseURL,
		"goes_flux_url":    c.GOESFluxURL,
		"goes_flares_url":  c.GOESFlaresURL,
		"goes_archive_url": c.GOESArchiveURL,
		"hek_url":          c.HEKURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	return nil
}

// Debug reports whether verbose request logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// ArchiveDir returns the raw CSV archive directory path.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "raw")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
