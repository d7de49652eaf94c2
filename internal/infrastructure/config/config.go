package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for hearth.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Bridge       BridgeConfig       `yaml:"bridge"`
	Database     DatabaseConfig     `yaml:"database"`
	MQTT         MQTTConfig         `yaml:"mqtt"`
	API          APIConfig          `yaml:"api"`
	WebSocket    WebSocketConfig    `yaml:"websocket"`
	InfluxDB     InfluxDBConfig     `yaml:"influxdb"`
	Logging      LoggingConfig      `yaml:"logging"`
	Integrations IntegrationsConfig `yaml:"integrations"`
}

// BridgeConfig contains bridge-wide identity settings.
type BridgeConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker          MQTTBrokerConfig    `yaml:"broker"`
	Auth            MQTTAuthConfig      `yaml:"auth"`
	QoS             int                 `yaml:"qos"`
	Reconnect       MQTTReconnectConfig `yaml:"reconnect"`
	DiscoveryPrefix string              `yaml:"discovery_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// IntegrationsConfig contains per-integration settings.
type IntegrationsConfig struct {
	AOSmith   AOSmithConfig   `yaml:"aosmith"`
	SignalRGB SignalRGBConfig `yaml:"signalrgb"`
}

// AOSmithConfig contains settings for the A. O. Smith cloud integration.
type AOSmithConfig struct {
	Enabled bool `yaml:"enabled"`

	// Email and Password are the myAOSmith account credentials.
	Email    string `yaml:"email"`
	Password string `yaml:"password"`

	// BaseURL overrides the cloud API endpoint. Empty uses the production API.
	BaseURL string `yaml:"base_url,omitempty"`

	// StatusInterval is how often device status is polled.
	// Default: 30s
	StatusInterval time.Duration `yaml:"status_interval"`

	// EnergyInterval is how often energy usage is polled. Energy totals
	// move slowly, so this is much longer than the status interval.
	// Default: 30m
	EnergyInterval time.Duration `yaml:"energy_interval"`
}

// SignalRGBConfig contains settings for the SignalRGB local integration.
type SignalRGBConfig struct {
	Enabled bool `yaml:"enabled"`

	// Host is the address of the machine running SignalRGB.
	Host string `yaml:"host"`

	// Port is the SignalRGB HTTP API port. Default: 16038
	Port int `yaml:"port"`

	// PollInterval is how often the light entity refreshes its state.
	// Default: 5m
	PollInterval time.Duration `yaml:"poll_interval"`

	// DefaultEffect is applied when the light is turned on with no
	// previously active effect to restore.
	DefaultEffect string `yaml:"default_effect"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEARTH_SECTION_KEY
// For example: HEARTH_DATABASE_PATH, HEARTH_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default intervals for the integrations.
const (
	defaultStatusInterval = 30 * time.Second
	defaultEnergyInterval = 30 * time.Minute
	defaultPollInterval   = 5 * time.Minute

	// defaultSignalRGBPort is the port the SignalRGB HTTP API listens on.
	defaultSignalRGBPort = 16038
)

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			ID:   "hearth-01",
			Name: "Hearth Bridge",
		},
		Database: DatabaseConfig{
			Path:        "./data/hearth.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "hearth-bridge",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			DiscoveryPrefix: "homeassistant",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8089,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Integrations: IntegrationsConfig{
			AOSmith: AOSmithConfig{
				StatusInterval: defaultStatusInterval,
				EnergyInterval: defaultEnergyInterval,
			},
			SignalRGB: SignalRGBConfig{
				Port:          defaultSignalRGBPort,
				PollInterval:  defaultPollInterval,
				DefaultEffect: "Falling Stars",
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HEARTH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("HEARTH_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("HEARTH_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HEARTH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HEARTH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("HEARTH_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("HEARTH_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Integration credentials are the values most likely to come from the
	// environment in containerised deployments.
	if v := os.Getenv("HEARTH_AOSMITH_EMAIL"); v != "" {
		cfg.Integrations.AOSmith.Email = v
	}
	if v := os.Getenv("HEARTH_AOSMITH_PASSWORD"); v != "" {
		cfg.Integrations.AOSmith.Password = v
	}
	if v := os.Getenv("HEARTH_SIGNALRGB_HOST"); v != "" {
		cfg.Integrations.SignalRGB.Host = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Bridge validation
	if c.Bridge.ID == "" {
		errs = append(errs, "bridge.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.DiscoveryPrefix == "" {
		errs = append(errs, "mqtt.discovery_prefix is required")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Integration validation: only enabled integrations need credentials.
	if c.Integrations.AOSmith.Enabled {
		if c.Integrations.AOSmith.Email == "" {
			errs = append(errs, "integrations.aosmith.email is required when enabled")
		}
		if c.Integrations.AOSmith.Password == "" {
			errs = append(errs, "integrations.aosmith.password is required when enabled")
		}
	}
	if c.Integrations.SignalRGB.Enabled {
		if c.Integrations.SignalRGB.Host == "" {
			errs = append(errs, "integrations.signalrgb.host is required when enabled")
		}
		if c.Integrations.SignalRGB.Port < 1 || c.Integrations.SignalRGB.Port > 65535 {
			errs = append(errs, "integrations.signalrgb.port must be between 1 and 65535")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
