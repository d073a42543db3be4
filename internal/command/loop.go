package command

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

// DefaultPeriod is the reference transmission period (10 Hz).
const DefaultPeriod = 100 * time.Millisecond

// Sender transmits one encoded packet, fire-and-forget. A failed send is
// reported but never retried: the next tick resends current state anyway.
type Sender interface {
	Send(buf []byte) error
}

// Recorder persists a transmitted packet, e.g. to the flight log.
type Recorder interface {
	Record(ctx context.Context, p setpoint.Packet) error
}

// WithPeriod sets the transmission period.
func WithPeriod(d time.Duration) func(*Loop) {
	return func(l *Loop) {
		l.period = d
	}
}

// WithLoopLogger sets the logger for the transmit loop.
func WithLoopLogger(logger *slog.Logger) func(*Loop) {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithRecorder sets an optional recorder invoked after every send.
func WithRecorder(r Recorder) func(*Loop) {
	return func(l *Loop) {
		l.recorder = r
	}
}

// Loop runs the cooperative control cycle: it applies operator events to
// the controller in arrival order and, while enabled, encodes and sends one
// packet per tick. Events, state mutation and transmission all execute on
// the one goroutine inside Run, which is what makes the lock-free
// Controller safe.
type Loop struct {
	ctrl   *Controller
	sender Sender
	events <-chan Event

	period   time.Duration
	recorder Recorder
	logger   *slog.Logger

	snapshots chan Snapshot
}

// NewLoop creates a transmit loop around a controller and a sender.
func NewLoop(ctrl *Controller, sender Sender, events <-chan Event, options ...func(*Loop)) *Loop {
	l := Loop{
		ctrl:      ctrl,
		sender:    sender,
		events:    events,
		period:    DefaultPeriod,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
		snapshots: make(chan Snapshot, 1),
	}

	for _, option := range options {
		option(&l)
	}

	return &l
}

// Snapshots returns a channel carrying control state updates for the
// display layer. The loop never blocks on it; a slow consumer just misses
// intermediate states.
func (l *Loop) Snapshots() <-chan Snapshot {
	return l.snapshots
}

// Run drives the loop until a Quit event, a closed event channel, or
// context cancellation. Every exit path emits exactly one neutral packet
// before returning.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()
	defer close(l.snapshots)

	l.publishSnapshot()

	for {
		select {
		case <-ctx.Done():
			l.sendNeutral(ctx)
			return nil

		case ev, ok := <-l.events:
			if !ok {
				l.sendNeutral(ctx)
				return nil
			}
			switch l.ctrl.Handle(ev) {
			case ActionSendNeutral:
				l.sendNeutral(ctx)
			case ActionTerminate:
				l.sendNeutral(ctx)
				l.publishSnapshot()
				return nil
			}
			l.publishSnapshot()

		case <-ticker.C:
			if !l.ctrl.Enabled() {
				continue
			}
			l.send(ctx, l.ctrl.Packet(time.Now()))
		}
	}
}

func (l *Loop) sendNeutral(ctx context.Context) {
	// the disarm row must still reach the recorder when the context
	// that stopped the loop is already canceled
	l.send(context.WithoutCancel(ctx), l.ctrl.NeutralPacket(time.Now()))
}

func (l *Loop) send(ctx context.Context, p setpoint.Packet) {
	if err := l.sender.Send(p.Marshal()); err != nil {
		// Control state is untouched; the next tick retries with
		// whatever the state is then.
		l.logger.Warn("send failed", slog.String("mode", p.Mode.String()), slog.String("error", err.Error()))
	}

	if l.recorder == nil {
		return
	}
	if err := l.recorder.Record(ctx, p); err != nil {
		l.logger.Warn("recording command failed", slog.String("error", err.Error()))
	}
}

func (l *Loop) publishSnapshot() {
	snap := l.ctrl.Snapshot()
	for {
		select {
		case l.snapshots <- snap:
			return
		default:
			// drop the stale snapshot and retry with the fresh one
			select {
			case <-l.snapshots:
			default:
			}
		}
	}
}
