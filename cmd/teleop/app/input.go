package app

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alireza787b/drone-teleop/internal/command"
)

// Token-based operator input over stdin, the plain-terminal stand-in for a
// GUI or joystick layer. Tokens are whitespace-separated and map 1:1 to
// events; a '-' prefix turns an axis token into a release.
//
//	e   enable           c   disable        h  hold
//	m   toggle law       q   quit
//	w/s pitch up/down    a/d roll left/right
//	up/down  thrust or climb                left/right yaw
var tokenEvents = map[string]command.Event{
	"e": {Kind: command.EventEnable},
	"c": {Kind: command.EventDisable},
	"h": {Kind: command.EventHold},
	"m": {Kind: command.EventToggleMode},
	"q": {Kind: command.EventQuit},

	"w":     command.Press(command.AxisPitchUp),
	"s":     command.Press(command.AxisPitchDown),
	"a":     command.Press(command.AxisRollLeft),
	"d":     command.Press(command.AxisRollRight),
	"up":    command.Press(command.AxisUp),
	"down":  command.Press(command.AxisDown),
	"left":  command.Press(command.AxisYawLeft),
	"right": command.Press(command.AxisYawRight),
}

// ParseToken resolves one input token to an event.
func ParseToken(token string) (command.Event, bool) {
	token = strings.ToLower(token)

	release := strings.HasPrefix(token, "-")
	ev, ok := tokenEvents[strings.TrimPrefix(token, "-")]
	if !ok {
		return command.Event{}, false
	}
	if release {
		if ev.Kind != command.EventAxisPress {
			return command.Event{}, false
		}
		ev.Kind = command.EventAxisRelease
	}
	return ev, true
}

// ReadEvents scans r for input tokens and forwards them as events. The
// channel is closed on every return — EOF, quit, or cancellation — so the
// transmit loop winds down safely when the input stream goes away.
func ReadEvents(ctx context.Context, r io.Reader, events chan<- command.Event, logger *slog.Logger) {
	defer close(events)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, token := range strings.Fields(scanner.Text()) {
			ev, ok := ParseToken(token)
			if !ok {
				logger.Warn("ignoring unknown input token", slog.String("token", token))
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}

			if ev.Kind == command.EventQuit {
				return
			}
		}
	}
}
