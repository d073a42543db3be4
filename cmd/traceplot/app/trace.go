package app

import (
	"time"

	"github.com/alireza787b/drone-teleop/internal/flightlog"
	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

// TracePoint is one command value at one transmission instant.
type TracePoint struct {
	T time.Time
	V float64
}

// Series is one command axis over a session.
type Series struct {
	Name   string
	Points []TracePoint
}

// TraceData accumulates the four command axes of a session. The charted
// mode is locked to the first attitude or velocity-body packet seen;
// packets of any other mode are counted but not charted.
type TraceData struct {
	Session *flightlog.Session
	Mode    setpoint.Mode
	Series  [4]*Series

	Start, End time.Time
	Min, Max   float64
	Count      int64
	Skipped    int64
}

var seriesNames = map[setpoint.Mode][4]string{
	setpoint.AttitudeControl: {"roll [deg]", "pitch [deg]", "yaw [deg]", "thrust"},
	setpoint.VelocityBody:    {"vx [m/s]", "vy [m/s]", "vz [m/s]", "yaw rate [deg/s]"},
}

// NewTraceData creates an empty trace for one session.
func NewTraceData(session *flightlog.Session) *TraceData {
	return &TraceData{Session: session}
}

// Update folds one logged command into the trace.
func (d *TraceData) Update(rec flightlog.Record) {
	p := rec.Packet

	if d.Mode == 0 {
		names, ok := seriesNames[p.Mode]
		if !ok {
			d.Skipped++
			return
		}
		d.Mode = p.Mode
		for i := range d.Series {
			d.Series[i] = &Series{Name: names[i]}
		}
	}
	if p.Mode != d.Mode {
		d.Skipped++
		return
	}

	values := d.axisValues(p)
	for i, v := range values {
		d.Series[i].Points = append(d.Series[i].Points, TracePoint{T: p.Timestamp, V: v})

		if d.Count == 0 && i == 0 {
			d.Min, d.Max = v, v
		}
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}

	if d.Count == 0 || p.Timestamp.Before(d.Start) {
		d.Start = p.Timestamp
	}
	if d.Count == 0 || p.Timestamp.After(d.End) {
		d.End = p.Timestamp
	}
	d.Count++
}

func (d *TraceData) axisValues(p setpoint.Packet) [4]float64 {
	switch d.Mode {
	case setpoint.VelocityBody:
		return [4]float64{p.Velocity.X, p.Velocity.Y, p.Velocity.Z, p.AttitudeRate.Z}
	default:
		return [4]float64{p.Attitude.Roll, p.Attitude.Pitch, p.Attitude.Yaw, p.Attitude.Thrust}
	}
}
