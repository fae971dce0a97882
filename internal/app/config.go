package app

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/yungbote/roomfinder-backend/internal/data/db"
	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	"github.com/yungbote/roomfinder-backend/internal/observability"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	LogMode         string        `env:"LOG_MODE" envDefault:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"roomfinder"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	RedisAddr string        `env:"REDIS_ADDR"`
	LockTTL   time.Duration `env:"LOCK_TTL" envDefault:"10s"`

	PageAccessToken string        `env:"PAGE_ACCESS_TOKEN"`
	VerifyToken     string        `env:"VERIFY_TOKEN"`
	AppSecret       string        `env:"APP_SECRET"`
	GraphAPIBase    string        `env:"GRAPH_API_BASE" envDefault:"https://graph.facebook.com/v2.6"`
	GraphAPITimeout time.Duration `env:"GRAPH_API_TIMEOUT" envDefault:"10s"`

	CampusTimezone string `env:"CAMPUS_TIMEZONE" envDefault:"Australia/Sydney"`
	RoomOpenHour   int    `env:"ROOM_OPEN_HOUR" envDefault:"8"`
	RoomCloseHour  int    `env:"ROOM_CLOSE_HOUR" envDefault:"22"`

	MetricsEnabled     bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Otel observability.OtelConfig
}

// LoadConfig loads .env files (when present) and parses the environment.
func LoadConfig() (Config, error) {
	loadEnvFiles()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Real environment variables win over the file.
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
		}
	}
}

func (c Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	if c.RoomOpenHour < 0 || c.RoomCloseHour > 24 || c.RoomOpenHour >= c.RoomCloseHour {
		return fmt.Errorf("invalid campus hours %d-%d", c.RoomOpenHour, c.RoomCloseHour)
	}
	if _, err := c.Campus(); err != nil {
		return err
	}
	return nil
}

// RequireMessenger checks what serving the webhook needs.
func (c Config) RequireMessenger() error {
	var missing []string
	if strings.TrimSpace(c.PageAccessToken) == "" {
		missing = append(missing, "PAGE_ACCESS_TOKEN")
	}
	if strings.TrimSpace(c.VerifyToken) == "" {
		missing = append(missing, "VERIFY_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) Campus() (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(c.CampusTimezone))
	if err != nil {
		return nil, fmt.Errorf("CAMPUS_TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Name:     c.PostgresName,
		SSLMode:  c.PostgresSSLMode,
	}
}

func searchConfig(c Config, campus *time.Location) repos.SearchConfig {
	return repos.SearchConfig{Location: campus, OpenHour: c.RoomOpenHour, CloseHour: c.RoomCloseHour}
}

func (c Config) Messenger() messenger.Config {
	return messenger.Config{
		BaseURL:         c.GraphAPIBase,
		PageAccessToken: c.PageAccessToken,
		Timeout:         c.GraphAPITimeout,
	}
}
