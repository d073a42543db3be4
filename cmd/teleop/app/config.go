package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alireza787b/drone-teleop/internal/command"
)

// Config represents the main application configuration
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Control   ControlConfig   `yaml:"control"`
	Transport TransportConfig `yaml:"transport"`
	FlightLog FlightLogConfig `yaml:"flightLog"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() (slog.Level, error) {
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level '%s': %w", s.LogLevel, err)
	}
	return level, nil
}

// ControlConfig selects the command profile, control law and step sizes.
type ControlConfig struct {
	Profile     string      `yaml:"profile"`
	Incremental bool        `yaml:"incremental"`
	SendRateHz  float64     `yaml:"sendRateHz"`
	Steps       StepsConfig `yaml:"steps"`
}

// StepsConfig holds per-input axis adjustments. Zero values fall back to
// the reference defaults.
type StepsConfig struct {
	RollPitch float64 `yaml:"rollPitch"`
	Yaw       float64 `yaml:"yaw"`
	Thrust    float64 `yaml:"thrust"`
	Speed     float64 `yaml:"speed"`
}

// Steps converts the configuration to command steps, filling defaults.
func (s StepsConfig) Steps() command.Steps {
	steps := command.DefaultSteps
	if s.RollPitch > 0 {
		steps.RollPitch = s.RollPitch
	}
	if s.Yaw > 0 {
		steps.Yaw = s.Yaw
	}
	if s.Thrust > 0 {
		steps.Thrust = s.Thrust
	}
	if s.Speed > 0 {
		steps.Speed = s.Speed
	}
	return steps
}

// TransportConfig is the setpoint destination.
type TransportConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// FlightLogConfig enables recording of transmitted commands.
type FlightLogConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DataDirectory string `yaml:"dataDirectory"`
}

// NewConfig returns a configuration with reference defaults: attitude
// profile, instant-reset law, 10 Hz to 127.0.0.1:5005.
func NewConfig() *Config {
	return &Config{
		Control: ControlConfig{
			Profile:    string(command.ProfileAttitude),
			SendRateHz: 10,
		},
		Transport: TransportConfig{
			Host: "127.0.0.1",
			Port: 5005,
		},
	}
}

// LoadConfig reads and validates a yaml configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := NewConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch command.Profile(c.Control.Profile) {
	case command.ProfileAttitude, command.ProfileVelocityBody:
	default:
		return fmt.Errorf("unknown control profile '%s'", c.Control.Profile)
	}

	if c.Control.SendRateHz <= 0 {
		return fmt.Errorf("send rate must be positive, got %v", c.Control.SendRateHz)
	}
	if c.Transport.Host == "" {
		return fmt.Errorf("transport host is required")
	}
	if c.Transport.Port <= 0 || c.Transport.Port > 65535 {
		return fmt.Errorf("invalid transport port %d", c.Transport.Port)
	}
	return nil
}
