package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// APP_TIMEZONE names resolve in containers without a zoneinfo database
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const devSecret = "dev-only-secret-change-me"

type Config struct {
	Env     string
	Port    int
	BaseURL string

	// DBURL selects Postgres when set; otherwise SQLitePath is used.
	DBURL      string
	SQLitePath string

	SecretKey     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeocoderURL         string
	GeocoderUserAgent   string
	GeocoderTimeout     time.Duration
	GeocoderDisabled    bool
	GeocodeRequireMatch bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Timezone decides which calendar day is "today" for expiry windows and
	// donation dates. "Local" is the server's zone.
	Timezone string

	OTLPEndpoint  string
	AuthRateLimit int
}

func Load() Config {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	secret := getEnv("SECRET_KEY", "")
	if secret == "" && (env == "dev" || env == "test") {
		secret = devSecret
	}

	return Config{
		Env:     env,
		Port:    getEnvInt("PORT", 8080),
		BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		DBURL:      getEnv("DATABASE_URL", ""),
		SQLitePath: getEnv("SQLITE_PATH", "data/foodshelter.db"),

		SecretKey:     secret,
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		ResetTokenTTL: getEnvDuration("RESET_TOKEN_TTL", time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeocoderURL:         getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:   getEnv("GEOCODER_USER_AGENT", "FoodShelterApp/1.0"),
		GeocoderTimeout:     getEnvDuration("GEOCODER_TIMEOUT", 5*time.Second),
		GeocoderDisabled:    getEnvBool("GEOCODER_DISABLED", false),
		GeocodeRequireMatch: getEnvBool("GEOCODE_REQUIRE_MATCH", false),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@foodshelter.local"),

		Timezone: getEnv("APP_TIMEZONE", "Local"),

		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 20),
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.Env == "prod" && c.SecretKey == devSecret {
		errs = append(errs, errors.New("SECRET_KEY must be set in prod"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.GeocoderTimeout <= 0 {
		errs = append(errs, errors.New("GEOCODER_TIMEOUT must be positive"))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// UsesPostgres reports whether DBURL points at a Postgres server.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DBURL, "postgres://") || strings.HasPrefix(c.DBURL, "postgresql://")
}

// Location resolves Timezone; empty means the server's zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Clock returns time.Now in the configured zone, falling back to the server's.
func (c Config) Clock() func() time.Time {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

func (c Config) UsesDevSecret() bool {
	return c.SecretKey == devSecret
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fallback
		}
		return d
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}
