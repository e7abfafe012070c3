package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // engine.timezone must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"

	"fricu/internal/analysis"
	"fricu/internal/store"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Engine  EngineConfig  `json:"engine"`
	Server  ServerConfig  `json:"server"`
	Display DisplayConfig `json:"display"`
}

// AthleteConfig holds fallback athlete thresholds, used when the stored
// profile does not set them
type AthleteConfig struct {
	FTPWatts    int     `json:"ftp_watts"`
	ThresholdHR int     `json:"threshold_hr"`
	WeightKg    float64 `json:"weight_kg"`
}

// EngineConfig tunes the training load engine
type EngineConfig struct {
	Timezone           string  `json:"timezone"`
	AnaerobicMidpoint  float64 `json:"anaerobic_midpoint"`
	AnaerobicSteepness float64 `json:"anaerobic_steepness"`
	DefaultWindowDays  int     `json:"default_window_days"`
}

// ServerConfig holds sync server settings
type ServerConfig struct {
	Bind         string   `json:"bind"`
	DBPath       string   `json:"db_path"`
	DatabaseURL  string   `json:"database_url,omitempty"`
	JWTSecret    string   `json:"jwt_secret,omitempty"`
	JWTIssuer    string   `json:"jwt_issuer,omitempty"`
	KafkaBrokers []string `json:"kafka_brokers,omitempty"`
	KafkaTopic   string   `json:"kafka_topic"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
}

// DefaultBind is the server listen address when none is configured
const DefaultBind = "0.0.0.0:8080"

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// ErrInvalidBind is returned for listen addresses that are not host:port
var ErrInvalidBind = errors.New("invalid bind address")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			FTPWatts:    250,
			ThresholdHR: 170,
			WeightKg:    70,
		},
		Engine: EngineConfig{
			Timezone:           "UTC",
			AnaerobicMidpoint:  analysis.DefaultAnaerobicCurve.Midpoint,
			AnaerobicSteepness: analysis.DefaultAnaerobicCurve.Steepness,
			DefaultWindowDays:  90,
		},
		Server: ServerConfig{
			Bind:       DefaultBind,
			DBPath:     store.DefaultDBPath,
			KafkaTopic: "fricu.data.updated",
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
		},
	}
}

// Load reads the configuration from ~/.fricu/config.json and applies
// environment overrides. A .env file in the working directory is loaded
// first when present. A missing config file yields defaults together
// with ErrNoConfig so callers can decide whether that matters.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path, then applies defaults and
// environment overrides
func LoadFile(path string) (*Config, error) {
	var cfg Config
	var missing bool

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		missing = true
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults(DefaultConfig())
	cfg.applyEnv()

	if missing {
		return &cfg, ErrNoConfig
	}
	return &cfg, nil
}

// applyDefaults fills missing values
func (c *Config) applyDefaults(defaults Config) {
	if c.Athlete.FTPWatts == 0 {
		c.Athlete.FTPWatts = defaults.Athlete.FTPWatts
	}
	if c.Athlete.ThresholdHR == 0 {
		c.Athlete.ThresholdHR = defaults.Athlete.ThresholdHR
	}
	if c.Athlete.WeightKg == 0 {
		c.Athlete.WeightKg = defaults.Athlete.WeightKg
	}
	if c.Engine.Timezone == "" {
		c.Engine.Timezone = defaults.Engine.Timezone
	}
	if c.Engine.AnaerobicMidpoint == 0 {
		c.Engine.AnaerobicMidpoint = defaults.Engine.AnaerobicMidpoint
	}
	if c.Engine.AnaerobicSteepness == 0 {
		c.Engine.AnaerobicSteepness = defaults.Engine.AnaerobicSteepness
	}
	if c.Engine.DefaultWindowDays == 0 {
		c.Engine.DefaultWindowDays = defaults.Engine.DefaultWindowDays
	}
	if c.Server.Bind == "" {
		c.Server.Bind = defaults.Server.Bind
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = defaults.Server.DBPath
	}
	if c.Server.KafkaTopic == "" {
		c.Server.KafkaTopic = defaults.Server.KafkaTopic
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
}

// applyEnv overrides file values with FRICU_* environment variables
func (c *Config) applyEnv() {
	c.Server.DBPath = getEnv("FRICU_DB_PATH", c.Server.DBPath)
	c.Server.Bind = getEnv("FRICU_SERVER_BIND", c.Server.Bind)
	c.Server.DatabaseURL = getEnv("FRICU_DATABASE_URL", c.Server.DatabaseURL)
	c.Server.JWTSecret = getEnv("FRICU_JWT_SECRET", c.Server.JWTSecret)
	c.Server.JWTIssuer = getEnv("FRICU_JWT_ISSUER", c.Server.JWTIssuer)
	c.Server.KafkaTopic = getEnv("FRICU_KAFKA_TOPIC", c.Server.KafkaTopic)
	if brokers := getEnv("FRICU_KAFKA_BROKERS", ""); brokers != "" {
		c.Server.KafkaBrokers = splitAndTrim(brokers)
	}
	c.Engine.Timezone = getEnv("FRICU_TIMEZONE", c.Engine.Timezone)
	c.Athlete.FTPWatts = getIntEnv("FRICU_FTP_WATTS", c.Athlete.FTPWatts)
	c.Athlete.ThresholdHR = getIntEnv("FRICU_THRESHOLD_HR", c.Athlete.ThresholdHR)
}

// Save writes the configuration to ~/.fricu/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks the config for values the app cannot run with
func (c *Config) Validate() error {
	if c.Athlete.FTPWatts < 0 {
		return fmt.Errorf("athlete.ftp_watts must not be negative, got %d", c.Athlete.FTPWatts)
	}
	if c.Athlete.ThresholdHR < 0 || c.Athlete.ThresholdHR > 250 {
		return fmt.Errorf("athlete.threshold_hr must be between 0 and 250, got %d", c.Athlete.ThresholdHR)
	}
	if c.Athlete.WeightKg < 0 {
		return fmt.Errorf("athlete.weight_kg must not be negative, got %v", c.Athlete.WeightKg)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Engine.AnaerobicMidpoint < 0 || c.Engine.AnaerobicSteepness < 0 {
		return errors.New("engine.anaerobic_midpoint and engine.anaerobic_steepness must not be negative")
	}
	if c.Engine.DefaultWindowDays < 0 || c.Engine.DefaultWindowDays > analysis.MaxWindowDays {
		return fmt.Errorf("engine.default_window_days must be between 0 and %d, got %d", analysis.MaxWindowDays, c.Engine.DefaultWindowDays)
	}

	if c.Server.Bind != "" {
		if err := ValidateBind(c.Server.Bind); err != nil {
			return err
		}
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	return nil
}

// ValidateBind checks that addr is host:port with a port in 1..65535
func ValidateBind(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidBind, addr, err)
	}
	if host == "" {
		return fmt.Errorf("%w %q: missing host", ErrInvalidBind, addr)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w %q: port must be 1-65535", ErrInvalidBind, addr)
	}
	return nil
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Engine.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("engine.timezone %q: %w", c.Engine.Timezone, err)
	}
	return loc, nil
}

// EngineOptions converts the engine section into analysis options
func (c *Config) EngineOptions() (analysis.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return analysis.Options{}, err
	}
	opts := analysis.DefaultOptions()
	opts.Location = loc
	opts.Curve = analysis.AnaerobicCurve{
		Midpoint:  c.Engine.AnaerobicMidpoint,
		Steepness: c.Engine.AnaerobicSteepness,
	}
	return opts, nil
}

// DefaultWindow returns the window the dashboard opens with
func (c *Config) DefaultWindow() analysis.Window {
	return analysis.Window{Days: c.Engine.DefaultWindowDays}
}

// FallbackProfile returns the athlete section as a profile, used to fill
// fields the stored profile leaves unset
func (c *Config) FallbackProfile() store.Profile {
	return store.Profile{
		DefaultFTPWatts:           c.Athlete.FTPWatts,
		DefaultThresholdHeartRate: c.Athlete.ThresholdHR,
		WeightKg:                  c.Athlete.WeightKg,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fricu"), nil
}
