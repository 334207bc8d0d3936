// Package config provides Viper-based configuration loading for the adventure engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GameConfig holds encounter tuning settings.
type GameConfig struct {
	// EasyMode forces every session into easy mode when true. When false,
	// session difficulty is derived from the starting character's rebirths.
	EasyMode bool `mapstructure:"easy_mode"`
	// EntryFee is the currency balance a player must hold to start or join
	// an encounter. The fee is checked, not withdrawn.
	EntryFee int64 `mapstructure:"entry_fee"`
	// Cooldown is the per-guild delay between encounters.
	Cooldown time.Duration `mapstructure:"cooldown"`
	// HistoryCapacity bounds the per-guild raid history used for scaling.
	HistoryCapacity int `mapstructure:"history_capacity"`
	// SessionMaxAge is the age past which the sweeper reaps a session.
	SessionMaxAge time.Duration `mapstructure:"session_max_age"`
	// SweepInterval is the sweeper polling period.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// BossTimer, MinibossTimer and NormalTimer are the easy-mode action
	// windows; HardTimer is the flat hard-mode window.
	BossTimer     time.Duration `mapstructure:"boss_timer"`
	MinibossTimer time.Duration `mapstructure:"miniboss_timer"`
	NormalTimer   time.Duration `mapstructure:"normal_timer"`
	HardTimer     time.Duration `mapstructure:"hard_timer"`
	// DailyBonuses maps ISO weekday ("1" Monday .. "7" Sunday) to a reward
	// multiplier added on top of gear multipliers.
	DailyBonuses map[string]float64 `mapstructure:"daily_bonuses"`
	// GodName is the default deity referenced by pray narration. Guilds may
	// override it through their settings.
	GodName string `mapstructure:"god_name"`
}

// DayMultiplier returns the configured bonus multiplier for the day of t.
//
// Postcondition: Returns 0 when no bonus is configured for that weekday.
func (g GameConfig) DayMultiplier(t time.Time) float64 {
	iso := int(t.Weekday())
	if iso == 0 {
		iso = 7
	}
	return g.DailyBonuses[fmt.Sprintf("%d", iso)]
}

// ThemeConfig holds theme content settings.
type ThemeConfig struct {
	// Dir is the directory containing theme subdirectories.
	Dir string `mapstructure:"dir"`
	// Name selects the theme subdirectory to load.
	Name string `mapstructure:"name"`
}

// Path returns the selected theme directory.
//
// Postcondition: Returns Dir joined with Name by a forward slash.
func (t ThemeConfig) Path() string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(t.Dir, "/"), t.Name)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds scoreboard connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the "host:port" connect address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTheme(c.Theme); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRedis(c.Redis); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.EntryFee < 0 {
		errs = append(errs, fmt.Sprintf("game.entry_fee must be >= 0, got %d", g.EntryFee))
	}
	if g.Cooldown < 0 {
		errs = append(errs, "game.cooldown must not be negative")
	}
	if g.HistoryCapacity < 1 {
		errs = append(errs, fmt.Sprintf("game.history_capacity must be >= 1, got %d", g.HistoryCapacity))
	}
	if g.SessionMaxAge <= 0 {
		errs = append(errs, "game.session_max_age must be positive")
	}
	if g.SweepInterval <= 0 {
		errs = append(errs, "game.sweep_interval must be positive")
	}
	for name, d := range map[string]time.Duration{
		"game.boss_timer":     g.BossTimer,
		"game.miniboss_timer": g.MinibossTimer,
		"game.normal_timer":   g.NormalTimer,
		"game.hard_timer":     g.HardTimer,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive", name))
		}
	}
	for day, mult := range g.DailyBonuses {
		if len(day) != 1 || day[0] < '1' || day[0] > '7' {
			errs = append(errs, fmt.Sprintf("game.daily_bonuses key must be 1-7, got %q", day))
		}
		if mult < 0 {
			errs = append(errs, fmt.Sprintf("game.daily_bonuses[%s] must be >= 0, got %v", day, mult))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTheme(t ThemeConfig) error {
	var errs []string
	if t.Dir == "" {
		errs = append(errs, "theme.dir must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, "theme.name must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Host == "" {
		errs = append(errs, "redis.host must not be empty")
	}
	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Sprintf("redis.port must be 1-65535, got %d", r.Port))
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ADVENTURE_ prefix
	v.SetEnvPrefix("ADVENTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.easy_mode", true)
	v.SetDefault("game.entry_fee", 250)
	v.SetDefault("game.cooldown", "2m")
	v.SetDefault("game.history_capacity", 20)
	v.SetDefault("game.session_max_age", "6m")
	v.SetDefault("game.sweep_interval", "5s")
	v.SetDefault("game.boss_timer", "5m")
	v.SetDefault("game.miniboss_timer", "3m")
	v.SetDefault("game.normal_timer", "2m")
	v.SetDefault("game.hard_timer", "3m")
	v.SetDefault("game.daily_bonuses", map[string]float64{
		"1": 0, "2": 0, "3": 0.5, "4": 0, "5": 0.5, "6": 1.0, "7": 1.0,
	})
	v.SetDefault("game.god_name", "Herbert")

	v.SetDefault("theme.dir", "content/themes")
	v.SetDefault("theme.name", "default")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "adventure")
	v.SetDefault("database.password", "adventure")
	v.SetDefault("database.name", "adventure")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
