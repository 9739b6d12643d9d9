package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Store    StoreConfig    `mapstructure:"store"`
	Game     GameConfig     `mapstructure:"game"     validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
	Routes   RoutesConfig   `mapstructure:"routes"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,min=4,max=31"`
}

// StoreConfig contains settings of the in-memory data store.
type StoreConfig struct {
	// SimulatedLatency delays every mutation to mimic a networked backend.
	SimulatedLatency time.Duration `mapstructure:"simulated_latency" validate:"gte=0"`
	// SeedDemo creates the demo patient and caretaker accounts at startup.
	SeedDemo bool `mapstructure:"seed_demo"`
}

// GameConfig contains the scoring and timing rules of the game engine.
type GameConfig struct {
	MatchScore   int           `mapstructure:"match_score"   validate:"gt=0"`
	LevelScore   int           `mapstructure:"level_score"   validate:"gt=0"`
	UnflipDelay  time.Duration `mapstructure:"unflip_delay"  validate:"gt=0"`
	AdvanceDelay time.Duration `mapstructure:"advance_delay" validate:"gte=0"`
	// CatalogPath optionally replaces the built-in game content.
	CatalogPath string `mapstructure:"catalog_path" validate:"omitempty,file"`
}

// ReminderConfig contains settings of the schedule reminder trigger.
type ReminderConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

// RoutesConfig contains settings of walking route tracking.
type RoutesConfig struct {
	// ToleranceMeters is how far from a route a patient may stray and still
	// count as on it.
	ToleranceMeters float64 `mapstructure:"tolerance_meters" validate:"gt=0"`
	// SafeZoneRadiusMeters is the radius of a safe zone set without one.
	SafeZoneRadiusMeters float64 `mapstructure:"safe_zone_radius_meters" validate:"gt=0,lte=100000"`
}
