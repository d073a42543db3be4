package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alireza787b/drone-teleop/internal/command"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
control:
  profile: velocity-body
  incremental: true
  sendRateHz: 20
  steps:
    yaw: 10.0
    speed: 0.5
transport:
  host: 192.168.1.20
  port: 6001
flightLog:
  enabled: true
  dataDirectory: flights
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Control.Profile != "velocity-body" || !config.Control.Incremental || config.Control.SendRateHz != 20 {
		t.Errorf("control config wrong: %+v", config.Control)
	}
	if config.Transport.Host != "192.168.1.20" || config.Transport.Port != 6001 {
		t.Errorf("transport config wrong: %+v", config.Transport)
	}
	if !config.FlightLog.Enabled || config.FlightLog.DataDirectory != "flights" {
		t.Errorf("flight log config wrong: %+v", config.FlightLog)
	}

	level, err := config.Settings.Level()
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", level)
	}

	steps := config.Control.Steps.Steps()
	if steps.Yaw != 10.0 || steps.Speed != 0.5 {
		t.Errorf("configured steps not applied: %+v", steps)
	}
	if steps.RollPitch != command.DefaultSteps.RollPitch || steps.Thrust != command.DefaultSteps.Thrust {
		t.Errorf("unset steps did not default: %+v", steps)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Control.Profile != string(command.ProfileAttitude) {
		t.Errorf("default profile = %s", config.Control.Profile)
	}
	if config.Control.SendRateHz != 10 {
		t.Errorf("default send rate = %v", config.Control.SendRateHz)
	}
	if config.Transport.Host != "127.0.0.1" || config.Transport.Port != 5005 {
		t.Errorf("default transport = %+v", config.Transport)
	}

	level, err := config.Settings.Level()
	if err != nil {
		t.Fatal(err)
	}
	if level != slog.LevelInfo {
		t.Errorf("default log level = %v", level)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"bad profile", "control:\n  profile: position\n"},
		{"zero rate", "control:\n  profile: attitude\n  sendRateHz: 0\n"},
		{"bad port", "transport:\n  port: 70000\n"},
		{"not yaml", ":\n:::\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig accepted invalid configuration")
			}
		})
	}
}
