package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides, e.g.
// PLACEMENT_DATABASE_PATH or PLACEMENT_METRICS_TOKEN.
const envPrefix = "PLACEMENT_"

// Config is everything placementd needs to run: the profile store, the
// HTTP API, and the optional MQTT and InfluxDB integrations. Values come
// from YAML with environment overrides on top.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig identifies this placementd instance.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig locates and tunes the SQLite profile store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"` // seconds
}

// APIConfig configures the REST server that exposes the spec and
// profile endpoints.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig holds the certificate pair for HTTPS serving.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig holds HTTP server timeouts, in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig controls cross-origin access to the API. Empty lists mean
// permissive defaults (dev mode).
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// MQTTConfig configures profile event publishing. When disabled the
// service runs normally and simply publishes nothing.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig is the broker endpoint and client identity.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig carries broker credentials. Set the password through
// PLACEMENT_MQTT_PASSWORD rather than the file.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig tunes reconnect backoff, in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"` // 0 = retry forever
}

// MetricsConfig configures the InfluxDB sink for resolution telemetry.
// Like MQTT, it is optional. Set the token through
// PLACEMENT_METRICS_TOKEN rather than the file.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"` // seconds
}

// LoggingConfig selects log level, format, and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load builds the runtime configuration in three layers: built-in
// defaults, then the YAML file at path, then PLACEMENT_* environment
// variables. The merged result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig is the baseline a bare `placementd` run gets: local
// SQLite store, API on :8080, MQTT and metrics off.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "placement-001",
			Name: "Placement Core",
		},
		Database: DatabaseConfig{
			Path:        "./data/placement.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host:     "0.0.0.0",
			Port:     8080,
			Timeouts: APITimeoutConfig{Read: 30, Write: 30, Idle: 60},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "placement-core",
			},
			QoS:       1,
			Reconnect: MQTTReconnectConfig{InitialDelay: 1, MaxDelay: 60},
		},
		Metrics: MetricsConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides layers PLACEMENT_* environment variables over the
// file values. Credentials (broker password, metrics token) are expected
// to arrive this way in production.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		key string
		set func(string)
	}{
		{"DATABASE_PATH", func(v string) { cfg.Database.Path = v }},
		{"API_HOST", func(v string) { cfg.API.Host = v }},
		{"API_PORT", func(v string) {
			if port, err := strconv.Atoi(v); err == nil {
				cfg.API.Port = port
			}
		}},
		{"MQTT_HOST", func(v string) { cfg.MQTT.Broker.Host = v }},
		{"MQTT_USERNAME", func(v string) { cfg.MQTT.Auth.Username = v }},
		{"MQTT_PASSWORD", func(v string) { cfg.MQTT.Auth.Password = v }},
		{"METRICS_TOKEN", func(v string) { cfg.Metrics.Token = v }},
	}

	for _, o := range overrides {
		if v := os.Getenv(envPrefix + o.key); v != "" {
			o.set(v)
		}
	}
}

// Validate checks the merged configuration, collecting every problem
// into one error so a misconfigured deployment fails with the full list.
func (c *Config) Validate() error {
	var errs []string
	fail := func(msg string) { errs = append(errs, msg) }

	if c.Service.ID == "" {
		fail("service.id is required")
	}
	if c.Database.Path == "" {
		fail("database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		fail("api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		fail("api.tls requires cert_file and key_file when enabled")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		fail("mqtt.qos must be 0, 1, or 2")
	}

	// Connection details for optional integrations matter only when
	// the integration is switched on.
	if c.Metrics.Enabled {
		if c.Metrics.URL == "" {
			fail("metrics.url is required when metrics are enabled")
		}
		if c.Metrics.Org == "" || c.Metrics.Bucket == "" {
			fail("metrics.org and metrics.bucket are required when metrics are enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
