// Package command turns discrete operator events into a live control state
// and materializes one setpoint packet per transmission tick.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

// Profile selects which setpoint variant the controller produces and how
// the eight directional inputs map onto its four command axes.
type Profile string

const (
	// ProfileAttitude commands roll, pitch, yaw angles and thrust.
	ProfileAttitude Profile = "attitude"

	// ProfileVelocityBody commands a body-frame velocity vector and a
	// yaw rate.
	ProfileVelocityBody Profile = "velocity-body"
)

// Steps holds the per-input adjustment applied to each axis. A step is both
// the fixed offset under the instant-reset law and the per-event delta under
// the incremental law.
type Steps struct {
	RollPitch float64 // degrees (attitude profile)
	Yaw       float64 // degrees, or deg/s yaw rate (velocity-body)
	Thrust    float64 // normalized thrust (attitude profile)
	Speed     float64 // m/s (velocity-body profile)
}

// DefaultSteps mirrors the reference sender constants.
var DefaultSteps = Steps{
	RollPitch: 2.0,
	Yaw:       5.0,
	Thrust:    0.02,
	Speed:     1.0,
}

const neutralThrust = 0.5

// internal axis slots; their meaning depends on the profile
const (
	axRoll = iota // roll angle / lateral velocity
	axPitch       // pitch angle / forward velocity
	axZ           // thrust / vertical velocity
	axYaw         // yaw angle / yaw rate
	numAxes
)

type axisState struct {
	value   float64
	neutral float64
	step    float64
	clamped bool // bounded to [0, 1]; only thrust
}

func (a *axisState) set(v float64) {
	if a.clamped {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
	}
	a.value = v
}

// Action tells the transmit loop what an event requires beyond the state
// mutation already applied.
type Action int

const (
	// ActionNone requires nothing; the next tick picks up the new state.
	ActionNone Action = iota

	// ActionSendNeutral requires one immediate neutral packet,
	// independent of tick timing.
	ActionSendNeutral

	// ActionTerminate requires one immediate neutral packet and then
	// termination of the transmit loop.
	ActionTerminate
)

// WithSteps overrides the default per-input step sizes.
func WithSteps(s Steps) func(*Controller) {
	return func(c *Controller) {
		c.steps = s
	}
}

// WithIncremental sets the initial control law. False selects the
// instant-reset law.
func WithIncremental(incremental bool) func(*Controller) {
	return func(c *Controller) {
		c.incremental = incremental
	}
}

// WithLogger sets the logger for the controller.
func WithLogger(logger *slog.Logger) func(*Controller) {
	return func(c *Controller) {
		c.logger = logger.With(slog.String("profile", string(c.profile)))
	}
}

// Controller owns the live control state: the four command axes of the
// active profile, the enabled flag and the control law selector. All
// mutation goes through Handle, so no locking is needed as long as events
// and ticks are funnelled through a single goroutine (see Loop).
type Controller struct {
	profile     Profile
	steps       Steps
	enabled     bool
	incremental bool
	axes        [numAxes]axisState

	logger *slog.Logger
}

// New creates a Controller for the given profile with neutral axis values.
func New(profile Profile, options ...func(*Controller)) (*Controller, error) {
	if profile != ProfileAttitude && profile != ProfileVelocityBody {
		return nil, fmt.Errorf("unknown control profile '%s'", profile)
	}

	c := Controller{
		profile: profile,
		steps:   DefaultSteps,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&c)
	}

	c.initAxes()
	return &c, nil
}

func (c *Controller) initAxes() {
	switch c.profile {
	case ProfileAttitude:
		c.axes[axRoll] = axisState{step: c.steps.RollPitch}
		c.axes[axPitch] = axisState{step: c.steps.RollPitch}
		c.axes[axZ] = axisState{value: neutralThrust, neutral: neutralThrust, step: c.steps.Thrust, clamped: true}
		c.axes[axYaw] = axisState{step: c.steps.Yaw}

	case ProfileVelocityBody:
		c.axes[axRoll] = axisState{step: c.steps.Speed}
		c.axes[axPitch] = axisState{step: c.steps.Speed}
		c.axes[axZ] = axisState{step: c.steps.Speed}
		c.axes[axYaw] = axisState{step: c.steps.Yaw}
	}
}

// Handle applies a single event to the control state and reports what the
// transmit loop must do next. Axis events are silently ignored while
// disabled; an axis unknown to the profile is ignored as well.
func (c *Controller) Handle(ev Event) Action {
	switch ev.Kind {
	case EventEnable:
		c.enabled = true

	case EventDisable:
		c.enabled = false
		return ActionSendNeutral

	case EventHold:
		c.resetAxes()

	case EventToggleMode:
		c.incremental = !c.incremental

	case EventQuit:
		return ActionTerminate

	case EventAxisPress:
		if !c.enabled {
			return ActionNone
		}
		idx, dir, ok := c.axisFor(ev.Axis)
		if !ok {
			c.logger.Debug("ignoring invalid axis", slog.Int("axis", int(ev.Axis)))
			return ActionNone
		}
		ax := &c.axes[idx]
		if c.incremental {
			ax.set(ax.value + dir*ax.step)
		} else {
			ax.set(ax.neutral + dir*ax.step)
		}

	case EventAxisRelease:
		if !c.enabled || c.incremental {
			return ActionNone
		}
		idx, _, ok := c.axisFor(ev.Axis)
		if !ok {
			c.logger.Debug("ignoring invalid axis", slog.Int("axis", int(ev.Axis)))
			return ActionNone
		}
		c.axes[idx].value = c.axes[idx].neutral
	}

	return ActionNone
}

func (c *Controller) resetAxes() {
	for i := range c.axes {
		c.axes[i].value = c.axes[i].neutral
	}
}

// axisFor resolves a directional input into an axis slot and a sign. The
// vertical pair inverts under velocity-body because the wire convention is
// down-positive.
func (c *Controller) axisFor(a Axis) (idx int, dir float64, ok bool) {
	switch a {
	case AxisRollLeft:
		return axRoll, -1, true
	case AxisRollRight:
		return axRoll, +1, true
	case AxisPitchUp:
		if c.profile == ProfileVelocityBody {
			return axPitch, +1, true // forward
		}
		return axPitch, -1, true
	case AxisPitchDown:
		if c.profile == ProfileVelocityBody {
			return axPitch, -1, true
		}
		return axPitch, +1, true
	case AxisUp:
		if c.profile == ProfileVelocityBody {
			return axZ, -1, true // climb
		}
		return axZ, +1, true
	case AxisDown:
		if c.profile == ProfileVelocityBody {
			return axZ, +1, true
		}
		return axZ, -1, true
	case AxisYawLeft:
		return axYaw, -1, true
	case AxisYawRight:
		return axYaw, +1, true
	}
	return 0, 0, false
}

// Enabled reports whether periodic transmission is active.
func (c *Controller) Enabled() bool { return c.enabled }

// Incremental reports the active control law.
func (c *Controller) Incremental() bool { return c.incremental }

// Setpoint returns the current axis values as the profile's tagged variant.
func (c *Controller) Setpoint() setpoint.Setpoint {
	switch c.profile {
	case ProfileVelocityBody:
		return setpoint.VelocityBodySetpoint{
			VX:      c.axes[axPitch].value,
			VY:      c.axes[axRoll].value,
			VZ:      c.axes[axZ].value,
			YawRate: c.axes[axYaw].value,
		}
	default:
		return setpoint.AttitudeSetpoint{
			Roll:   c.axes[axRoll].value,
			Pitch:  c.axes[axPitch].value,
			Yaw:    c.axes[axYaw].value,
			Thrust: c.axes[axZ].value,
		}
	}
}

// Packet materializes the current state as a wire packet for one
// transmission tick.
func (c *Controller) Packet(ts time.Time) setpoint.Packet {
	return setpoint.NewPacket(c.Setpoint(), c.enabled, ts)
}

// NeutralPacket materializes the safety packet emitted on disable and quit:
// disabled, every mode field zero, thrust included.
func (c *Controller) NeutralPacket(ts time.Time) setpoint.Packet {
	switch c.profile {
	case ProfileVelocityBody:
		return setpoint.NewPacket(setpoint.VelocityBodySetpoint{}, false, ts)
	default:
		return setpoint.NewPacket(setpoint.AttitudeSetpoint{}, false, ts)
	}
}

// Snapshot is a read-only view of the control state for presentation.
type Snapshot struct {
	Profile     Profile
	Enabled     bool
	Incremental bool
	Setpoint    setpoint.Setpoint
}

// Snapshot returns the current control state for the display boundary.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Profile:     c.profile,
		Enabled:     c.enabled,
		Incremental: c.incremental,
		Setpoint:    c.Setpoint(),
	}
}
