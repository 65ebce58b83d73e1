package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ClientConfig configures the access layer and the segfault CLI.
type ClientConfig struct {
	APIURL       string        `env:"SEGFAULT_API_URL,      default=http://localhost:8080"`
	HTTPTimeout  time.Duration `env:"SEGFAULT_HTTP_TIMEOUT, default=30s"`
	FanOutLimit  int           `env:"SEGFAULT_FANOUT_LIMIT, default=8"`
	RememberFile string        `env:"SEGFAULT_REMEMBER_FILE"`
	RememberKey  string        `env:"SEGFAULT_REMEMBER_KEY"`
	TokenFile    string        `env:"SEGFAULT_TOKEN_FILE"`
	Env          string        `env:"ENV,                   default=development"`
	LogLevel     string        `env:"LOG_LEVEL,             default=warn"`
}

// ServerConfig configures the development API server.
type ServerConfig struct {
	Port           string        `env:"PORT,             default=8080"`
	Env            string        `env:"ENV,              default=development"`
	JWTSecret      string        `env:"JWT_SECRET,       default=segfault-dev-secret"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=24h"`
	OneTimeTTL     time.Duration `env:"ONE_TIME_TOKEN_TTL, default=24h"`
	FrontendURL    string        `env:"FRONTEND_URL,     default=http://localhost:5173"`
	NotifyWorkers  int           `env:"NOTIFY_WORKERS,   default=4"`
	LogLevel       string        `env:"LOG_LEVEL,        default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

// MongoConfig is optional: an empty URI keeps the server in memory.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=segmentation_fault"`
}

// RedisConfig is optional: an empty address keeps one-time tokens in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// LoadClient reads the client configuration from the environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return loadClient(ctx, envconfig.OsLookuper())
}

func loadClient(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: load client configuration: %w", err)
	}
	if cfg.RememberFile == "" {
		cfg.RememberFile = defaultFile("remember.json")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultFile("token")
	}
	return &cfg, nil
}

// LoadServer reads the development server configuration from the
// environment.
func LoadServer(ctx context.Context) (*ServerConfig, error) {
	return loadServer(ctx, envconfig.OsLookuper())
}

func loadServer(ctx context.Context, l envconfig.Lookuper) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: load server configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether env selects development defaults such as
// the pretty console logger.
func IsDevelopment(env string) bool {
	return env == "" || env == "development" || env == "dev"
}

func defaultFile(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "segfault", name)
}
