package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds server settings. Values come from an optional config.yaml
// with environment variables taking precedence, so deployments can override
// individual fields without editing the file.
type Config struct {
	Port           string        `yaml:"port"`
	CityName       string        `yaml:"city_name"`
	DatasetPath    string        `yaml:"dataset_path"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	RedisDB        int           `yaml:"redis_db"`
}

func defaults() Config {
	return Config{
		Port:        "5050",
		CityName:    "Dormentes",
		DatasetPath: "data/blocks.geojson",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
		},
		SessionTTL: 6 * time.Hour,
	}
}

// Load reads path (if it exists) and applies env overrides. A missing file
// is not an error; the defaults cover local development.
func Load(path string) (Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CITY_NAME"); v != "" {
		cfg.CityName = v
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		cfg.DatasetPath = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
