package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Address     string        `yaml:"address" env:"APP_ADDRESS" env-default:":8081"`
	DatabaseDSN string        `yaml:"db_dsn" env:"DB_DSN" env-required:"true"`
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTTL   time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL  time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"720h"`
	// Request paths starting with one of these prefixes bypass
	// authentication entirely.
	ExemptPrefixes []string `yaml:"auth_exempt_prefixes" env:"AUTH_EXEMPT_PREFIXES" env-separator:"," env-default:"/auth,/console"`
}

// MustLoadConfig reads configuration from the file named by CONFIG_PATH if
// set, otherwise from the environment. Panics on invalid config so the
// process fails at startup rather than mid-request.
func MustLoadConfig() *Config {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic(fmt.Sprintf("failed to load config %s: %v", path, err))
		}
		return &cfg
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load config from environment: %v", err))
	}
	return &cfg
}
