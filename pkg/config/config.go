package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Detector DetectorConfig
	Resolver ResolverConfig
	Advisory AdvisoryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DetectorConfig carries the fixed detection thresholds. The defaults mirror
// the district conventions the rules were written against; they are exposed
// as configuration rather than constants so pilots with different bell
// schedules can adjust them.
type DetectorConfig struct {
	// LunchRunPeriods is the number of contiguous periods after which a
	// teacher is expected to have had a lunch-length gap.
	LunchRunPeriods int
	// LunchMinGapMinutes is the smallest gap that qualifies as a lunch break.
	LunchMinGapMinutes int
	// StandardDayPeriods is the length of a standard teaching day used by the
	// preparation-period check.
	StandardDayPeriods int
	// TravelBufferMinutes is the maximum gap between slots in different
	// buildings that still counts as a travel-time issue.
	TravelBufferMinutes int
}

// ResolverConfig governs automatic resolution policy.
type ResolverConfig struct {
	// AutoApplyMinConfidence gates unattended application of suggestions.
	AutoApplyMinConfidence float64
}

// AdvisoryConfig points at the optional local LLM advisory service. The
// engine never depends on it; suggestions are generated heuristically with
// or without it.
type AdvisoryConfig struct {
	Enabled  bool
	BaseURL  string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Detector = DetectorConfig{
		LunchRunPeriods:     v.GetInt("DETECTOR_LUNCH_RUN_PERIODS"),
		LunchMinGapMinutes:  v.GetInt("DETECTOR_LUNCH_MIN_GAP_MINUTES"),
		StandardDayPeriods:  v.GetInt("DETECTOR_STANDARD_DAY_PERIODS"),
		TravelBufferMinutes: v.GetInt("DETECTOR_TRAVEL_BUFFER_MINUTES"),
	}

	cfg.Resolver = ResolverConfig{
		AutoApplyMinConfidence: v.GetFloat64("RESOLVER_AUTO_APPLY_MIN_CONFIDENCE"),
	}

	cfg.Advisory = AdvisoryConfig{
		Enabled:  v.GetBool("ADVISORY_ENABLED"),
		BaseURL:  v.GetString("ADVISORY_BASE_URL"),
		Model:    v.GetString("ADVISORY_MODEL"),
		Timeout:  parseDuration(v.GetString("ADVISORY_TIMEOUT"), 30*time.Second),
		CacheTTL: parseDuration(v.GetString("ADVISORY_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_conflicts")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DETECTOR_LUNCH_RUN_PERIODS", 5)
	v.SetDefault("DETECTOR_LUNCH_MIN_GAP_MINUTES", 30)
	v.SetDefault("DETECTOR_STANDARD_DAY_PERIODS", 8)
	v.SetDefault("DETECTOR_TRAVEL_BUFFER_MINUTES", 10)

	v.SetDefault("RESOLVER_AUTO_APPLY_MIN_CONFIDENCE", 0.8)

	v.SetDefault("ADVISORY_ENABLED", false)
	v.SetDefault("ADVISORY_BASE_URL", "http://localhost:11434")
	v.SetDefault("ADVISORY_MODEL", "mistral:7b-instruct")
	v.SetDefault("ADVISORY_TIMEOUT", "30s")
	v.SetDefault("ADVISORY_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
