package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port          string   `yaml:"port"`
		CORSOrigins   []string `yaml:"cors_origins"`
		SessionSecret string   `yaml:"session_secret"`
		AdminToken    string   `yaml:"admin_token"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		CatalogID  string `yaml:"catalog_id"`
		TTL        string `yaml:"ttl"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"quiz"`
	Relay struct {
		Endpoint      string `yaml:"endpoint"`
		Timeout       string `yaml:"timeout"`
		FallbackEmail string `yaml:"fallback_email"`
		Subject       string `yaml:"subject"`
	} `yaml:"relay"`
	Consent struct {
		ExpiryDays int    `yaml:"expiry_days"`
		Version    string `yaml:"version"`
	} `yaml:"consent"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file yields an environment-only config.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides secrets and connection strings, typically loaded from .env.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.SessionSecret, "SESSION_SECRET")
	setString(&cfg.Server.AdminToken, "ADMIN_TOKEN")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.SQLite.Path, "SQLITE_PATH")
	setString(&cfg.Relay.Endpoint, "RELAY_ENDPOINT")
	setString(&cfg.Relay.FallbackEmail, "RELAY_FALLBACK_EMAIL")
	setString(&cfg.AMQP.URL, "RABBITMQ_URI")
	setString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ConsentExpiry returns the configured consent lifetime, or fallback when unset.
func (c Config) ConsentExpiry(fallback time.Duration) time.Duration {
	if c.Consent.ExpiryDays <= 0 {
		return fallback
	}
	return time.Duration(c.Consent.ExpiryDays) * 24 * time.Hour
}
