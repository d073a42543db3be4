package command

// Axis identifies one of the eight directional operator inputs. How an axis
// maps onto a command value depends on the controller profile: the pitch
// pair drives forward velocity under the velocity-body profile, and the
// up/down pair drives thrust under the attitude profile but vertical
// velocity under velocity-body.
type Axis int

const (
	AxisRollLeft Axis = iota
	AxisRollRight
	AxisPitchUp
	AxisPitchDown
	AxisUp
	AxisDown
	AxisYawLeft
	AxisYawRight
)

var axisNames = map[Axis]string{
	AxisRollLeft:  "roll-left",
	AxisRollRight: "roll-right",
	AxisPitchUp:   "pitch-up",
	AxisPitchDown: "pitch-down",
	AxisUp:        "up",
	AxisDown:      "down",
	AxisYawLeft:   "yaw-left",
	AxisYawRight:  "yaw-right",
}

func (a Axis) String() string {
	if s, ok := axisNames[a]; ok {
		return s
	}
	return "invalid-axis"
}

// EventKind tags an operator input event.
type EventKind int

const (
	// EventEnable starts periodic command transmission. Axis values are
	// left untouched.
	EventEnable EventKind = iota

	// EventDisable stops periodic transmission and immediately
	// countermands the last in-flight intent with one neutral packet.
	EventDisable

	// EventHold resets every axis to neutral without changing the
	// enabled state. Emergency freeze.
	EventHold

	// EventToggleMode flips between the instant-reset and incremental
	// control laws. Axis values deliberately carry over.
	EventToggleMode

	// EventQuit emits one neutral packet and terminates the transmit loop.
	EventQuit

	// EventAxisPress and EventAxisRelease carry an Axis. They are ignored
	// while disabled; release is additionally a no-op under the
	// incremental law.
	EventAxisPress
	EventAxisRelease
)

// Event is a single tagged operator input. Events are processed
// at-most-once, in order of arrival.
type Event struct {
	Kind EventKind
	Axis Axis
}

// Press returns an axis press event.
func Press(a Axis) Event { return Event{Kind: EventAxisPress, Axis: a} }

// Release returns an axis release event.
func Release(a Axis) Event { return Event{Kind: EventAxisRelease, Axis: a} }
