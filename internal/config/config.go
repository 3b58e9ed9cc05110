package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	SQLite      SQLiteConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Recurrence  RecurrenceConfig
	Household   HouseholdConfig
	Telegram    TelegramConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

// StorageConfig selects the primary store and the follow-up ledger backend.
type StorageConfig struct {
	Driver       string
	LedgerDriver string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type BufferConfig struct {
	Path           string
	RetentionHours int
	SyncInterval   time.Duration
	MaxRetry       int
	BatchSize      int
}

type RecurrenceConfig struct {
	Enabled  bool
	Interval time.Duration
	Timezone string
}

// Location resolves the configured timezone, falling back to the host zone.
func (r RecurrenceConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

type HouseholdConfig struct {
	AdminName     string
	AdminPassword string
	DeletePolicy  string
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Enabled reports whether both the bot token and the target chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
)

// Load reads configuration from environment variables (optionally .env)
// and applies defaults that boot a single-host household on SQLite.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "homeharmony"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getString("STORAGE_DRIVER", DriverSQLite)),
			LedgerDriver: strings.ToLower(getString("LEDGER_DRIVER", DriverBolt)),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "homeharmony"),
			User:            getString("DB_USER", "homeharmony"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		SQLite: SQLiteConfig{
			Path: getString("SQLITE_PATH", "./data/homeharmony.db"),
		},
		Redis: RedisConfig{
			Enabled:  getBool("REDIS_ENABLED", false),
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "homeharmony"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Buffer: BufferConfig{
			Path:           getString("BOLTDB_PATH", "./data/buffer.db"),
			RetentionHours: getInt("BUFFER_RETENTION_HOURS", 24),
			SyncInterval:   getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			MaxRetry:       getInt("MAX_RETRY_ATTEMPTS", 3),
			BatchSize:      getInt("BUFFER_BATCH_SIZE", 50),
		},
		Recurrence: RecurrenceConfig{
			Enabled:  getBool("RECURRENCE_ENABLED", true),
			Interval: getDuration("RECURRENCE_INTERVAL", time.Minute),
			Timezone: getString("RECURRENCE_TIMEZONE", "Local"),
		},
		Household: HouseholdConfig{
			AdminName:     getString("HOUSEHOLD_ADMIN_NAME", "admin"),
			AdminPassword: os.Getenv("HOUSEHOLD_ADMIN_PASSWORD"),
			DeletePolicy:  getString("MEMBER_DELETE_POLICY", "block"),
		},
		Telegram: TelegramConfig{
			Token:  os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID: getInt64("TELEGRAM_CHAT_ID", 0),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Storage.LedgerDriver {
	case DriverBolt, DriverMemory:
	case DriverRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("LEDGER_DRIVER=redis requires REDIS_ENABLED=true")
		}
	case DriverPostgres:
		if c.Storage.Driver != DriverPostgres {
			return fmt.Errorf("LEDGER_DRIVER=postgres requires STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported LEDGER_DRIVER %q", c.Storage.LedgerDriver)
	}
	if c.JWT.Secret == "" && c.Environment == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if _, err := c.Recurrence.Location(); err != nil {
		return fmt.Errorf("invalid RECURRENCE_TIMEZONE: %w", err)
	}
	return nil
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
