package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alireza787b/drone-teleop/internal/command"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		token string
		want  command.Event
		ok    bool
	}{
		{"e", command.Event{Kind: command.EventEnable}, true},
		{"q", command.Event{Kind: command.EventQuit}, true},
		{"M", command.Event{Kind: command.EventToggleMode}, true},
		{"d", command.Press(command.AxisRollRight), true},
		{"right", command.Press(command.AxisYawRight), true},
		{"-d", command.Release(command.AxisRollRight), true},
		{"-UP", command.Release(command.AxisUp), true},
		{"-e", command.Event{}, false}, // only axis tokens release
		{"x", command.Event{}, false},
		{"", command.Event{}, false},
	}

	for _, tt := range tests {
		ev, ok := ParseToken(tt.token)
		if ok != tt.ok || ev != tt.want {
			t.Errorf("ParseToken(%q) = %+v, %v; want %+v, %v", tt.token, ev, ok, tt.want, tt.ok)
		}
	}
}

func TestReadEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := make(chan command.Event, 16)

	input := "e d\nbogus -d\nq\n"
	ReadEvents(context.Background(), strings.NewReader(input), events, logger)

	want := []command.Event{
		{Kind: command.EventEnable},
		command.Press(command.AxisRollRight),
		command.Release(command.AxisRollRight),
		{Kind: command.EventQuit},
	}
	for i, w := range want {
		select {
		case ev := <-events:
			if ev != w {
				t.Errorf("event %d = %+v, want %+v", i, ev, w)
			}
		default:
			t.Fatalf("missing event %d (%+v)", i, w)
		}
	}
}

func TestReadEventsClosesAfterQuit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := make(chan command.Event, 16)

	ReadEvents(context.Background(), strings.NewReader("q\nw\n"), events, logger)

	if ev := <-events; ev.Kind != command.EventQuit {
		t.Fatalf("first event = %+v", ev)
	}
	if _, ok := <-events; ok {
		t.Error("channel not closed after quit")
	}
}

func TestReadEventsClosesOnEOF(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := make(chan command.Event, 16)

	ReadEvents(context.Background(), strings.NewReader("e\n"), events, logger)

	if ev := <-events; ev.Kind != command.EventEnable {
		t.Fatalf("first event = %+v", ev)
	}
	if _, ok := <-events; ok {
		t.Error("channel not closed after EOF")
	}
}
