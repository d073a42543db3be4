package command

import (
	"testing"
	"time"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

func newAttitude(t *testing.T, options ...func(*Controller)) *Controller {
	t.Helper()
	c, err := New(ProfileAttitude, options...)
	if err != nil {
		t.Fatalf("New(attitude) failed: %v", err)
	}
	return c
}

func attSetpoint(t *testing.T, c *Controller) setpoint.AttitudeSetpoint {
	t.Helper()
	sp, ok := c.Setpoint().(setpoint.AttitudeSetpoint)
	if !ok {
		t.Fatalf("Setpoint() = %T, want AttitudeSetpoint", c.Setpoint())
	}
	return sp
}

func TestNewUnknownProfile(t *testing.T) {
	if _, err := New(Profile("position")); err == nil {
		t.Error("New() accepted unknown profile")
	}
}

func TestNeutralState(t *testing.T) {
	c := newAttitude(t)
	sp := attSetpoint(t, c)
	if sp.Roll != 0 || sp.Pitch != 0 || sp.Yaw != 0 {
		t.Errorf("initial angles not neutral: %+v", sp)
	}
	if sp.Thrust != 0.5 {
		t.Errorf("initial thrust = %v, want 0.5", sp.Thrust)
	}
	if c.Enabled() || c.Incremental() {
		t.Errorf("initial flags: enabled=%v incremental=%v", c.Enabled(), c.Incremental())
	}
}

func TestInstantResetLaw(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})

	c.Handle(Press(AxisRollRight))
	if got := attSetpoint(t, c).Roll; got != 2.0 {
		t.Errorf("roll after press = %v, want 2.0", got)
	}

	// holding without release keeps the fixed offset
	c.Handle(Press(AxisRollRight))
	if got := attSetpoint(t, c).Roll; got != 2.0 {
		t.Errorf("roll after repeated press = %v, want 2.0", got)
	}

	c.Handle(Release(AxisRollRight))
	if got := attSetpoint(t, c).Roll; got != 0 {
		t.Errorf("roll after release = %v, want 0", got)
	}
}

func TestIncrementalLaw(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})

	for i := 0; i < 3; i++ {
		c.Handle(Press(AxisPitchUp))
	}
	if got := attSetpoint(t, c).Pitch; got != -6.0 {
		t.Errorf("pitch after 3 presses = %v, want -6.0", got)
	}

	// release keeps the accumulated value
	c.Handle(Release(AxisPitchUp))
	if got := attSetpoint(t, c).Pitch; got != -6.0 {
		t.Errorf("pitch after release = %v, want -6.0", got)
	}
}

func TestIncrementalThrustClamp(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})

	for i := 0; i < 100; i++ {
		c.Handle(Press(AxisUp))
	}
	if got := attSetpoint(t, c).Thrust; got != 1.0 {
		t.Errorf("thrust after repeated increase = %v, want 1.0", got)
	}

	for i := 0; i < 200; i++ {
		c.Handle(Press(AxisDown))
	}
	if got := attSetpoint(t, c).Thrust; got != 0 {
		t.Errorf("thrust after repeated decrease = %v, want 0", got)
	}
}

func TestIncrementalYawUnbounded(t *testing.T) {
	// yaw accumulates without wrapping past 360
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})

	for i := 0; i < 100; i++ {
		c.Handle(Press(AxisYawRight))
	}
	if got := attSetpoint(t, c).Yaw; got != 500 {
		t.Errorf("yaw after 100 presses = %v, want 500", got)
	}
}

func TestAxisEventsIgnoredWhileDisabled(t *testing.T) {
	c := newAttitude(t)

	if act := c.Handle(Press(AxisRollRight)); act != ActionNone {
		t.Errorf("press while disabled returned action %v", act)
	}
	if got := attSetpoint(t, c).Roll; got != 0 {
		t.Errorf("roll changed while disabled: %v", got)
	}

	c.Handle(Release(AxisRollRight))
	if got := attSetpoint(t, c).Roll; got != 0 {
		t.Errorf("roll changed by release while disabled: %v", got)
	}
}

func TestHoldResetsAxesKeepsEnabled(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})
	c.Handle(Press(AxisRollRight))
	c.Handle(Press(AxisUp))

	c.Handle(Event{Kind: EventHold})

	sp := attSetpoint(t, c)
	if sp.Roll != 0 || sp.Pitch != 0 || sp.Yaw != 0 || sp.Thrust != 0.5 {
		t.Errorf("axes not neutral after hold: %+v", sp)
	}
	if !c.Enabled() {
		t.Error("hold cleared the enabled flag")
	}
}

func TestToggleModeKeepsAccumulatedValues(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})
	c.Handle(Press(AxisRollRight))
	c.Handle(Press(AxisRollRight))

	c.Handle(Event{Kind: EventToggleMode})

	// accumulated value persists until an input or reset changes it
	if got := attSetpoint(t, c).Roll; got != 4.0 {
		t.Errorf("roll after toggling back = %v, want 4.0", got)
	}
	if c.Incremental() {
		t.Error("incremental flag not flipped back")
	}
}

func TestDisableEmitsNeutral(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Event{Kind: EventToggleMode})
	c.Handle(Press(AxisRollRight))
	c.Handle(Press(AxisUp))

	if act := c.Handle(Event{Kind: EventDisable}); act != ActionSendNeutral {
		t.Fatalf("disable returned action %v, want ActionSendNeutral", act)
	}
	if c.Enabled() {
		t.Error("controller still enabled after disable")
	}

	p := c.NeutralPacket(time.Unix(0, 1).UTC())
	if p.Enable {
		t.Error("neutral packet has enable flag set")
	}
	if p.Attitude != (setpoint.Attitude{}) || p.Velocity != (setpoint.Vector3{}) ||
		p.AttitudeRate != (setpoint.Vector3{}) {
		t.Errorf("neutral packet carries values: %+v", p)
	}
}

func TestQuitTerminates(t *testing.T) {
	c := newAttitude(t)
	if act := c.Handle(Event{Kind: EventQuit}); act != ActionTerminate {
		t.Errorf("quit returned action %v, want ActionTerminate", act)
	}
}

func TestYawScenario(t *testing.T) {
	// start neutral, enable, press yaw-right with step 5 under the
	// instant-reset law, then release
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Press(AxisYawRight))

	p := c.Packet(time.Unix(0, 1).UTC())
	if !p.Enable {
		t.Error("packet not flagged enabled")
	}
	if p.Attitude.Yaw != 5.0 {
		t.Errorf("yaw = %v, want 5.0", p.Attitude.Yaw)
	}

	c.Handle(Release(AxisYawRight))
	if p = c.Packet(time.Unix(0, 2).UTC()); p.Attitude.Yaw != 0 {
		t.Errorf("yaw after release = %v, want 0", p.Attitude.Yaw)
	}
}

func TestVelocityBodyMapping(t *testing.T) {
	c, err := New(ProfileVelocityBody)
	if err != nil {
		t.Fatal(err)
	}
	c.Handle(Event{Kind: EventEnable})

	c.Handle(Press(AxisPitchUp))
	c.Handle(Press(AxisRollRight))
	c.Handle(Press(AxisUp))
	c.Handle(Press(AxisYawRight))

	sp, ok := c.Setpoint().(setpoint.VelocityBodySetpoint)
	if !ok {
		t.Fatalf("Setpoint() = %T, want VelocityBodySetpoint", c.Setpoint())
	}
	if sp.VX != 1.0 {
		t.Errorf("forward velocity = %v, want 1.0", sp.VX)
	}
	if sp.VY != 1.0 {
		t.Errorf("lateral velocity = %v, want 1.0", sp.VY)
	}
	if sp.VZ != -1.0 {
		t.Errorf("vertical velocity = %v, want -1.0 (down-positive frame)", sp.VZ)
	}
	if sp.YawRate != 5.0 {
		t.Errorf("yaw rate = %v, want 5.0", sp.YawRate)
	}

	p := c.Packet(time.Unix(0, 1).UTC())
	if p.Mode != setpoint.VelocityBody {
		t.Errorf("packet mode = %v, want VELOCITY_BODY", p.Mode)
	}
	if p.AttitudeRate.Z != 5.0 {
		t.Errorf("wire yaw rate = %v, want 5.0", p.AttitudeRate.Z)
	}
	if p.Attitude != (setpoint.Attitude{}) {
		t.Errorf("velocity packet carries attitude values: %+v", p.Attitude)
	}
}

func TestSnapshot(t *testing.T) {
	c := newAttitude(t)
	c.Handle(Event{Kind: EventEnable})
	c.Handle(Press(AxisRollRight))

	snap := c.Snapshot()
	if snap.Profile != ProfileAttitude || !snap.Enabled || snap.Incremental {
		t.Errorf("snapshot flags wrong: %+v", snap)
	}
	if sp := snap.Setpoint.(setpoint.AttitudeSetpoint); sp.Roll != 2.0 {
		t.Errorf("snapshot roll = %v, want 2.0", sp.Roll)
	}
}
