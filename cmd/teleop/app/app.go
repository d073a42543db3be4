package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alireza787b/drone-teleop/internal/command"
	"github.com/alireza787b/drone-teleop/internal/flightlog"
	"github.com/alireza787b/drone-teleop/internal/transport"
)

const storageDir = "data"

// Run wires the operator input, the command state machine, the UDP sender
// and the optional flight log, then drives the transmit loop until quit or
// signal.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	sender, err := transport.NewUDPSender(config.Transport.Host, config.Transport.Port)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}
	defer sender.Close()

	ctrl, err := command.New(command.Profile(config.Control.Profile),
		command.WithSteps(config.Control.Steps.Steps()),
		command.WithIncremental(config.Control.Incremental),
		command.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	period := time.Duration(float64(time.Second) / config.Control.SendRateHz)
	loopOptions := []func(*command.Loop){
		command.WithPeriod(period),
		command.WithLoopLogger(logger),
	}

	if config.FlightLog.Enabled {
		store, err := createFlightLog(&config.FlightLog)
		if err != nil {
			return fmt.Errorf("failed to create flight log: %w", err)
		}
		defer store.Close()

		sessionID, err := store.CreateSession(ctx, flightlog.RoleSender, config.Control.Profile, sender.RemoteAddr(), config.Control)
		if err != nil {
			return fmt.Errorf("failed to create flight log session: %w", err)
		}

		logger.Info("recording commands", slog.Int64("sessionID", sessionID))
		loopOptions = append(loopOptions, command.WithRecorder(flightlog.NewSessionRecorder(store, sessionID)))
	}

	events := make(chan command.Event, 16)
	go ReadEvents(ctx, os.Stdin, events, logger)

	loop := command.NewLoop(ctrl, sender, events, loopOptions...)
	go logSnapshots(loop.Snapshots(), logger)

	logger.Info("transmitting setpoints",
		slog.String("destination", sender.RemoteAddr()),
		slog.String("profile", config.Control.Profile),
		slog.Float64("rateHz", config.Control.SendRateHz),
	)

	return loop.Run(ctx)
}

// logSnapshots consumes the display boundary: every control state change is
// reported to the operator. The loop never blocks on this.
func logSnapshots(snapshots <-chan command.Snapshot, logger *slog.Logger) {
	for snap := range snapshots {
		law := "instant-reset"
		if snap.Incremental {
			law = "incremental"
		}
		logger.Info("control state",
			slog.Bool("enabled", snap.Enabled),
			slog.String("law", law),
			slog.String("setpoint", fmt.Sprintf("%+v", snap.Setpoint)),
		)
	}
}

func createFlightLog(config *FlightLogConfig) (*flightlog.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	var dbPath string
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	} else {
		dbPath = filepath.Join(wd, storageDir)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("flight log directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("checking flight log directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid flight log directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("flight_session_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return flightlog.New(dbPath), nil
}
