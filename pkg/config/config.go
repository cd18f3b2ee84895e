package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverJSON   = "json"
	DriverSQLite = "sqlite"

	// DefaultEnvFile is read when no explicit file is given.
	DefaultEnvFile = ".env"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log     LogConfig
	CORS    CORSConfig
	Storage StorageConfig
	Exports ExportsConfig
	Redis   RedisConfig
	Events  EventsConfig
	Metrics MetricsConfig
	Server  ServerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Driver       string
	StudentsPath string
	LessonsPath  string
	SQLitePath   string
}

// ExportsConfig locates rendered CSV and PDF exports.
type ExportsConfig struct {
	Dir string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// EventsConfig controls the optional Redis fan-out of view changes.
type EventsConfig struct {
	RedisEnabled bool
	Channel      string
	Heartbeat    time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

// ServerConfig tunes the HTTP listener.
type ServerConfig struct {
	ShutdownTimeout time.Duration
}

// Load reads envFile (default .env) and the environment. A missing file is
// not an error. A file that cannot be parsed is ignored: the returned Config
// holds defaults plus environment values and the parse error is returned
// alongside it so the caller can report it and carry on.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenvErr := godotenv.Load(envFile)

	v := newViper()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")

	var readErr error
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		readErr = fmt.Errorf("read config %s: %w", envFile, err)
		v = newViper()
	} else if dotenvErr != nil && !isNotFound(dotenvErr) {
		readErr = fmt.Errorf("parse env file %s: %w", envFile, dotenvErr)
	}

	return fromViper(v), readErr
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER")))
	if driver != DriverSQLite {
		driver = DriverJSON
	}
	cfg.Storage = StorageConfig{
		Driver:       driver,
		StudentsPath: v.GetString("STUDENTS_FILE_PATH"),
		LessonsPath:  v.GetString("LESSONS_FILE_PATH"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
	}

	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Events = EventsConfig{
		RedisEnabled: v.GetBool("ENABLE_REDIS_EVENTS"),
		Channel:      v.GetString("REDIS_CHANNEL"),
		Heartbeat:    parseDuration(v.GetString("SSE_HEARTBEAT"), 15*time.Second),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Server = ServerConfig{
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("STORAGE_DRIVER", DriverJSON)
	v.SetDefault("STUDENTS_FILE_PATH", "data/students.json")
	v.SetDefault("LESSONS_FILE_PATH", "data/lessons.json")
	v.SetDefault("SQLITE_PATH", "data/tutoraid.db")
	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_REDIS_EVENTS", false)
	v.SetDefault("REDIS_CHANNEL", "tutoraid:views")
	v.SetDefault("SSE_HEARTBEAT", "15s")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
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
