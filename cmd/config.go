package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"parceltrack/internal/pkg/errs"
)

// Config holds the settings read from the environment at startup.
type Config struct {
	HTTPPort      string
	SecureCookies bool

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL           string
	TrackingRateLimit  int
	TrackingRateWindow time.Duration
	TrackingCacheTTL   time.Duration

	KafkaHost              string
	KafkaParcelStatusTopic string

	AdminName     string
	AdminEmail    string
	AdminPassword string

	UserListingAdminOnly bool
	StatsRefreshCron     string
}

// LoadConfig reads the configuration through getenv, applying defaults for
// optional settings. Missing database or JWT settings are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}
	cfg := Config{
		HTTPPort:      p.string("HTTP_PORT", "8080"),
		SecureCookies: p.bool("SECURE_COOKIES", false),

		DBHost:     p.required("DB_HOST"),
		DBPort:     p.string("DB_PORT", "5432"),
		DBUser:     p.required("DB_USER"),
		DBPassword: p.string("DB_PASSWORD", ""),
		DBName:     p.required("DB_NAME"),
		DBSslMode:  p.string("DB_SSLMODE", "disable"),

		JWTSecret: p.required("JWT_SECRET"),
		JWTTTL:    p.duration("JWT_TTL", 24*time.Hour),

		RedisURL:           p.string("REDIS_URL", ""),
		TrackingRateLimit:  p.int("TRACKING_RATE_LIMIT", 60),
		TrackingRateWindow: p.duration("TRACKING_RATE_WINDOW", time.Minute),
		TrackingCacheTTL:   p.duration("TRACKING_CACHE_TTL", 30*time.Second),

		KafkaHost:              p.string("KAFKA_HOST", ""),
		KafkaParcelStatusTopic: p.string("KAFKA_PARCEL_STATUS_TOPIC", "parcel.status-changed"),

		AdminName:     p.string("ADMIN_NAME", "Administrator"),
		AdminEmail:    p.string("ADMIN_EMAIL", ""),
		AdminPassword: p.string("ADMIN_PASSWORD", ""),

		UserListingAdminOnly: p.bool("USER_LISTING_ADMIN_ONLY", false),
		StatsRefreshCron:     p.string("STATS_REFRESH_CRON", ""),
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SeedsAdmin reports whether both admin bootstrap settings are set.
func (c Config) SeedsAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

type envParser struct {
	getenv func(string) string
	errs   []error
}

func (p *envParser) string(key, fallback string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (p *envParser) required(key string) string {
	v := p.getenv(key)
	if v == "" {
		p.errs = append(p.errs, errs.NewValueIsRequiredError(key))
	}
	return v
}

func (p *envParser) int(key string, fallback int) int {
	v := p.getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}

func (p *envParser) bool(key string, fallback bool) bool {
	v := p.getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	v := p.getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a duration: %w", v, err)))
		return fallback
	}
	return d
}
