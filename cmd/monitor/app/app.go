// The monitor is the symmetric side of the setpoint link: it decodes, logs
// and optionally records incoming command packets. It never acts on them;
// executing commands is the vehicle agent's job.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/alireza787b/drone-teleop/internal/flightlog"
	"github.com/alireza787b/drone-teleop/internal/setpoint"
	"github.com/alireza787b/drone-teleop/internal/transport"
)

const receivePollTimeout = 500 * time.Millisecond

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	recv, err := transport.ListenUDP(config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	defer recv.Close()

	var recorder *flightlog.SessionRecorder
	if config.DBPath != "" {
		store := flightlog.New(config.DBPath)
		defer store.Close()

		sessionID, err := store.CreateSession(ctx, flightlog.RoleMonitor, "mixed", config.ListenAddr, nil)
		if err != nil {
			return fmt.Errorf("failed to create recording session: %w", err)
		}

		logger.Info("recording commands",
			slog.String("db", config.DBPath),
			slog.Int64("sessionID", sessionID))
		recorder = flightlog.NewSessionRecorder(store, sessionID)
	}

	logger.Info("listening for setpoints", slog.String("addr", recv.LocalAddr().String()))

	// one spare byte so an oversized datagram fails the length check
	// instead of silently truncating to a valid packet
	buf := make([]byte, setpoint.PacketSize+1)
	var received, malformed int64
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			logStats(logger, received, malformed, time.Since(start))
			return nil
		default:
		}

		n, from, err := recv.Receive(buf, receivePollTimeout)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			logStats(logger, received, malformed, time.Since(start))
			return fmt.Errorf("receiving datagram: %w", err)
		}

		p, err := setpoint.Unmarshal(buf[:n])
		if err != nil {
			malformed++
			logger.Warn("dropping malformed datagram",
				slog.String("from", from.String()),
				slog.Int("length", n),
				slog.String("error", err.Error()))
			continue
		}

		received++
		logger.Debug("setpoint",
			slog.String("from", from.String()),
			slog.String("mode", p.Mode.String()),
			slog.Bool("enable", p.Enable),
			slog.String("attitude", fmt.Sprintf("%+v", p.Attitude)),
			slog.String("velocity", fmt.Sprintf("%+v", p.Velocity)),
			slog.Float64("yawRate", p.AttitudeRate.Z),
		)

		if recorder == nil {
			continue
		}
		if err = recorder.Record(ctx, p); err != nil {
			logger.Warn("recording command failed", slog.String("error", err.Error()))
		}
	}
}

func logStats(logger *slog.Logger, received, malformed int64, elapsed time.Duration) {
	logger.Info("monitor stopped",
		slog.String("received", humanize.Comma(received)),
		slog.String("malformed", humanize.Comma(malformed)),
		slog.Duration("elapsed", elapsed.Round(time.Second)),
	)
}
