package config

import (
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"team-collab-api/internal/logger"
)

// Config holds every environment-driven setting of the server.
type Config struct {
	Port         string `env:"PORT"           env-default:"5000"`
	GinMode      string `env:"GIN_MODE"       env-default:"debug"`
	DatabasePath string `env:"DATABASE_PATH"  env-default:"collab.db"`

	JWTSecret   string `env:"JWT_SECRET"   env-default:"development-insecure-secret-change-me"`
	JWTIssuer   string `env:"JWT_ISSUER"   env-default:"team-collab-api"`
	JWTAudience string `env:"JWT_AUDIENCE" env-default:"team-collab-clients"`

	// ClientOrigins is a comma-separated list of allowed CORS origins.
	// "*" allows any origin (development default).
	ClientOrigins string `env:"CLIENT_ORIGINS" env-default:"*"`

	// Initial admin created on first start against an empty database.
	AdminName     string `env:"ADMIN_NAME"     env-default:"Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"    env-default:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:"admin12345"`
}

var (
	cfg  Config
	once sync.Once
)

// Get loads the configuration once per process. A .env file is honored when
// present but is not required.
func Get() Config {
	once.Do(load)
	return cfg
}

func load() {
	log := logger.Get()

	if err := godotenv.Load(); err == nil {
		log.Info("loaded environment from .env")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error("failed to read environment", "error", err)
	}
}

// Origins splits ClientOrigins into a slice for the CORS middleware.
func (c Config) Origins() []string {
	parts := strings.Split(c.ClientOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
