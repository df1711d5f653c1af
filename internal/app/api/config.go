package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
)

// DefaultConfigFile is read when CONFIG_FILE is unset. A missing file is fine.
const DefaultConfigFile = "configs/storefront.yaml"

// Storage backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config carries the settings shared by the API, the worker and the CLIs.
type Config struct {
	Environment      string  `yaml:"environment"`
	LogLevel         string  `yaml:"log_level"`
	Port             string  `yaml:"port"`
	TraceExporter    string  `yaml:"trace_exporter"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio"`

	StoreBackend string `yaml:"store_backend"`
	PostgresDSN  string `yaml:"postgres_dsn"`
	MongoURI     string `yaml:"mongo_uri"`
	MongoDB      string `yaml:"mongo_db"`
	RedisURL     string `yaml:"redis_url"`

	KafkaBrokers     []string `yaml:"kafka_brokers"`
	KafkaTopicPrefix string   `yaml:"kafka_topic_prefix"`

	JWTSecret                  string `yaml:"jwt_secret"`
	SessionTTLHours            int    `yaml:"session_ttl_hours"`
	SessionPurgeIntervalMinute int    `yaml:"session_purge_interval_minutes"`
	BcryptCost                 int    `yaml:"bcrypt_cost"`

	MediaDir      string `yaml:"media_dir"`
	PublicBaseURL string `yaml:"public_base_url"`

	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	RevenueTimezone string `yaml:"revenue_timezone"`

	TemporalAddress   string `yaml:"temporal_address"`
	TemporalNamespace string `yaml:"temporal_namespace"`
	TemporalDisabled  bool   `yaml:"temporal_disabled"`

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Environment:       "local",
		LogLevel:          "info",
		Port:              "8080",
		TraceExporter:     platformobservability.ExporterOTLP,
		TraceSampleRatio:  1,
		MongoDB:           "storefront",
		KafkaTopicPrefix:  "storefront",
		SessionTTLHours:   24,
		BcryptCost:        10,
		PublicBaseURL:     "http://localhost:8080",
		CacheTTLSeconds:   300,
		RevenueTimezone:   "Africa/Douala",
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
		AdminEmail:        "admin@matrixshop.com",
	}
}

// LoadConfig resolves defaults, then the YAML file at path (CONFIG_FILE or
// DefaultConfigFile when empty), then .env, then the process environment.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = envDefault("CONFIG_FILE", DefaultConfigFile)
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg.Environment = envDefault("APP_ENV", cfg.Environment)
	cfg.LogLevel = envDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.TraceExporter = strings.ToLower(envDefault("TRACE_EXPORTER", cfg.TraceExporter))
	if raw, ok := lookupEnv("TRACE_SAMPLE_RATIO"); ok {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil || ratio <= 0 || ratio > 1 {
			return Config{}, errors.New("TRACE_SAMPLE_RATIO must be in (0, 1]")
		}
		cfg.TraceSampleRatio = ratio
	}
	cfg.StoreBackend = strings.ToLower(envDefault("STORE_BACKEND", cfg.StoreBackend))
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.MongoURI = envDefault("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = envDefault("MONGO_DB", cfg.MongoDB)
	cfg.RedisURL = envDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicPrefix = envDefault("KAFKA_TOPIC_PREFIX", cfg.KafkaTopicPrefix)
	cfg.JWTSecret = envDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.MediaDir = envDefault("MEDIA_DIR", cfg.MediaDir)
	cfg.PublicBaseURL = envDefault("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.RevenueTimezone = envDefault("REVENUE_TIMEZONE", cfg.RevenueTimezone)
	cfg.TemporalAddress = envDefault("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = envDefault("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	if raw, ok := lookupEnv("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	cfg.AdminEmail = envDefault("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = envDefault("ADMIN_PASSWORD", cfg.AdminPassword)

	for _, setting := range []struct {
		key string
		dst *int
	}{
		{"SESSION_TTL_HOURS", &cfg.SessionTTLHours},
		{"SESSION_PURGE_INTERVAL_MINUTES", &cfg.SessionPurgeIntervalMinute},
		{"BCRYPT_COST", &cfg.BcryptCost},
		{"CACHE_TTL_SECONDS", &cfg.CacheTTLSeconds},
	} {
		if err := envPositiveInt(setting.key, setting.dst); err != nil {
			return Config{}, err
		}
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = deriveBackend(cfg)
	}
	switch cfg.TraceExporter {
	case platformobservability.ExporterOTLP, platformobservability.ExporterStdout, platformobservability.ExporterNone:
	default:
		return Config{}, fmt.Errorf("TRACE_EXPORTER must be one of otlp, stdout, none; got %q", cfg.TraceExporter)
	}
	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres, BackendMongo:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be one of memory, postgres, mongo; got %q", cfg.StoreBackend)
	}
	if _, err := time.LoadLocation(cfg.RevenueTimezone); err != nil {
		return Config{}, fmt.Errorf("REVENUE_TIMEZONE: %w", err)
	}
	if cfg.JWTSecret == "" {
		if cfg.Environment != "local" {
			return Config{}, errors.New("JWT_SECRET is required outside APP_ENV=local")
		}
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.JWTSecret = secret
	}
	return cfg, nil
}

// Observability names serviceName's telemetry settings.
func (c Config) Observability(serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:      serviceName,
		Environment:      c.Environment,
		LogLevel:         c.LogLevel,
		TraceExporter:    c.TraceExporter,
		TraceSampleRatio: c.TraceSampleRatio,
	}
}

// SessionTTL is the lifetime of an admin session.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SessionPurgeInterval is zero when the background purge is disabled.
func (c Config) SessionPurgeInterval() time.Duration {
	return time.Duration(c.SessionPurgeIntervalMinute) * time.Minute
}

// CacheTTL bounds the staleness of cached product reads.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RevenueLocation is the zone that revenue days are bucketed in.
func (c Config) RevenueLocation() *time.Location {
	loc, err := time.LoadLocation(c.RevenueTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func deriveBackend(cfg Config) string {
	switch {
	case cfg.PostgresDSN != "":
		return BackendPostgres
	case cfg.MongoURI != "":
		return BackendMongo
	default:
		return BackendMemory
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate JWT secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func lookupEnv(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func envDefault(key, fallback string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return fallback
}

func envPositiveInt(key string, dst *int) error {
	raw, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer", key)
	}
	*dst = n
	return nil
}

func envCSV(key string, fallback []string) []string {
	raw, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
