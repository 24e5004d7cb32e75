package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/xhit/go-str2duration/v2"
)

// config is read from the environment, after loading .env when present.
type config struct {
	BaseURL  string
	Timeout  time.Duration
	Rate     float64
	Burst    int
	MaxBody  int64
	LogLevel slog.Level

	JWTSecret  string
	JWTIssuer  string
	JWTSubject string
	JWTTTL     time.Duration
}

func loadConfig() (*config, error) {
	_ = godotenv.Load(".env") // optional

	cfg := &config{
		BaseURL:    os.Getenv("REST_BASE_URL"),
		JWTSecret:  os.Getenv("REST_JWT_SECRET"),
		JWTIssuer:  stringOrDefault("REST_JWT_ISSUER", "restcall"),
		JWTSubject: os.Getenv("REST_JWT_SUBJECT"),
	}

	var err error
	if cfg.Timeout, err = durationOrDefault("REST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = durationOrDefault("REST_JWT_TTL", time.Hour); err != nil {
		return nil, err
	}
	if v := os.Getenv("REST_RATE"); v != "" {
		if cfg.Rate, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, errors.Wrap(err, "REST_RATE")
		}
	}
	cfg.Burst = 1
	if v := os.Getenv("REST_BURST"); v != "" {
		if cfg.Burst, err = strconv.Atoi(v); err != nil {
			return nil, errors.Wrap(err, "REST_BURST")
		}
	}
	if cfg.Rate > 0 && cfg.Burst < 1 {
		return nil, errors.Errorf("REST_BURST must be at least 1 when REST_RATE is set, got %d", cfg.Burst)
	}
	if v := os.Getenv("REST_MAX_BODY_BYTES"); v != "" {
		if cfg.MaxBody, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, errors.Wrap(err, "REST_MAX_BODY_BYTES")
		}
	}
	if v := os.Getenv("REST_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, errors.Wrap(err, "REST_LOG_LEVEL")
		}
	}

	return cfg, nil
}

func (c *config) log(logger *slog.Logger) {
	logger.Debug("config",
		"base_url", c.BaseURL,
		"timeout", str2duration.String(c.Timeout),
		"rate", c.Rate,
		"burst", c.Burst,
		"max_body_bytes", c.MaxBody,
		"jwt_issuer", c.JWTIssuer,
		"jwt_subject", c.JWTSubject,
		"jwt_ttl", str2duration.String(c.JWTTTL),
	)
}

func stringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := str2duration.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return d, nil
}
