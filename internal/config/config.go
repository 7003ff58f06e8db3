package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"PORT" envDefault:"3000"`
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGDatabase  string `env:"PGDATABASE"`
	PGUser      string `env:"PGUSER"`
	PGPassword  string `env:"PGPASSWORD"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"public"`
	StorageDir  string `env:"STORAGE_DIR" envDefault:"storage"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" && cfg.PGHost == "" {
		return nil, fmt.Errorf("database not configured: set DATABASE_URL or PGHOST")
	}
	return &cfg, nil
}

// ConnString devuelve la URL de conexión a Postgres, armándola desde
// las variables PG* cuando DATABASE_URL no está presente.
func (c *Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PGUser, c.PGPassword),
		Host:   fmt.Sprintf("%s:%d", c.PGHost, c.PGPort),
		Path:   c.PGDatabase,
	}
	return u.String()
}
