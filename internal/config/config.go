package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultName           = "markview"
	DefaultAddr           = ":8080"
	DefaultBackendURL     = "http://localhost:5000"
	DefaultBackendTimeout = 10 * time.Second
	DefaultSiteTitle      = "TheMarkingProject"
)

// Config is the resolved markview runtime configuration.
type Config struct {
	Name           string
	Addr           string
	BackendURL     string
	BackendTimeout time.Duration
	CorsOrigins    []string
	SiteTitle      string
}

// markview config.toml key mapping.
type fileConfig struct {
	Name           string   `toml:"name"`
	Addr           string   `toml:"addr"`
	BackendURL     string   `toml:"backend_url"`
	BackendTimeout string   `toml:"backend_timeout"`
	CorsOrigins    []string `toml:"cors_origins"`
	SiteTitle      string   `toml:"site_title"`
}

func Default() Config {
	return Config{
		Name:           DefaultName,
		Addr:           DefaultAddr,
		BackendURL:     DefaultBackendURL,
		BackendTimeout: DefaultBackendTimeout,
		CorsOrigins:    []string{"http://localhost:3000"},
		SiteTitle:      DefaultSiteTitle,
	}
}

// Load overlays the keys defined in path onto Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("backend_url") {
		cfg.BackendURL = strings.TrimSpace(raw.BackendURL)
	}
	if meta.IsDefined("backend_timeout") {
		timeout, err := time.ParseDuration(strings.TrimSpace(raw.BackendTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): backend_timeout: %w", path, err)
		}
		cfg.BackendTimeout = timeout
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = trimAll(raw.CorsOrigins)
	}
	if meta.IsDefined("site_title") {
		cfg.SiteTitle = strings.TrimSpace(raw.SiteTitle)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("markview config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("markview config missing addr")
	}
	if cfg.BackendTimeout <= 0 {
		return fmt.Errorf("backend_timeout must be positive, got %s", cfg.BackendTimeout)
	}
	raw := strings.TrimSpace(cfg.BackendURL)
	if raw == "" {
		return fmt.Errorf("markview config missing backend_url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend_url invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("backend_url missing host: %q", raw)
	}
	for i, origin := range cfg.CorsOrigins {
		if origin == "" {
			return fmt.Errorf("cors_origins[%d] is empty", i)
		}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
