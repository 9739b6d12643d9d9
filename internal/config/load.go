package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CARE_SERVER_PORT.
const EnvPrefix = "CARE"

// Load configuration from environment variables and optionally a .env file.
// Environment variables take precedence over values from the .env file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an additional YAML, JSON or TOML config file.
// Environment variables take precedence over values from the file.
func LoadFile(path string) (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are only seen by AutomaticEnv when bound.
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("failed to bind auth.jwt_secret: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("store.simulated_latency", time.Duration(0))
	v.SetDefault("store.seed_demo", false)

	v.SetDefault("game.match_score", 10)
	v.SetDefault("game.level_score", 10)
	v.SetDefault("game.unflip_delay", time.Second)
	v.SetDefault("game.advance_delay", 1500*time.Millisecond)
	v.SetDefault("game.catalog_path", "")

	v.SetDefault("reminder.interval", time.Minute)

	v.SetDefault("routes.tolerance_meters", 50.0)
	v.SetDefault("routes.safe_zone_radius_meters", 1000.0)
}
