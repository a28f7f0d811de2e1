package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// EngineConfig carries the fusion and advisory policy knobs.
type EngineConfig struct {
	// MergePrecedence decides which device wins a timestamp collision:
	// "wrist" (default) or "chest".
	MergePrecedence string `yaml:"merge_precedence"`
	// WorkoutThreshold selects the elevated-HR rule: "offset" (RHR+20,
	// default) or "relative" (RHR*1.3).
	WorkoutThreshold string `yaml:"workout_threshold"`
	// OvertrainingPolicy selects the risk model: "simple" (default) or
	// "extended".
	OvertrainingPolicy string `yaml:"overtraining_policy"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix VITALFUSE_ and underscore-separated paths:
//
//	VITALFUSE_SERVER_HOST, VITALFUSE_SERVER_PORT,
//	VITALFUSE_DB_HOST, VITALFUSE_DB_PORT, VITALFUSE_DB_NAME,
//	VITALFUSE_DB_USER, VITALFUSE_DB_PASSWORD, VITALFUSE_DB_SSLMODE,
//	VITALFUSE_AUTH_API_KEY, VITALFUSE_TS_ENABLED, VITALFUSE_TS_HOSTNAME,
//	VITALFUSE_TS_STATE_DIR, VITALFUSE_ENGINE_MERGE_PRECEDENCE,
//	VITALFUSE_ENGINE_WORKOUT_THRESHOLD, VITALFUSE_ENGINE_OVERTRAINING_POLICY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VITALFUSE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VITALFUSE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VITALFUSE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("VITALFUSE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("VITALFUSE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("VITALFUSE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("VITALFUSE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("VITALFUSE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("VITALFUSE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("VITALFUSE_TS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("VITALFUSE_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("VITALFUSE_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("VITALFUSE_ENGINE_MERGE_PRECEDENCE"); v != "" {
		cfg.Engine.MergePrecedence = v
	}
	if v := os.Getenv("VITALFUSE_ENGINE_WORKOUT_THRESHOLD"); v != "" {
		cfg.Engine.WorkoutThreshold = v
	}
	if v := os.Getenv("VITALFUSE_ENGINE_OVERTRAINING_POLICY"); v != "" {
		cfg.Engine.OvertrainingPolicy = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Engine.MergePrecedence {
	case "", "wrist", "chest":
	default:
		return fmt.Errorf("engine.merge_precedence must be wrist or chest, got %q", c.Engine.MergePrecedence)
	}
	switch c.Engine.WorkoutThreshold {
	case "", "offset", "relative":
	default:
		return fmt.Errorf("engine.workout_threshold must be offset or relative, got %q", c.Engine.WorkoutThreshold)
	}
	switch c.Engine.OvertrainingPolicy {
	case "", "simple", "extended":
	default:
		return fmt.Errorf("engine.overtraining_policy must be simple or extended, got %q", c.Engine.OvertrainingPolicy)
	}
	return nil
}
