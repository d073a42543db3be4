package flightlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

// WithStartTime excludes commands stamped before t.
func WithStartTime(t time.Time) func(*CommandIterator) {
	return func(i *CommandIterator) {
		i.startTime = &t
	}
}

// WithEndTime excludes commands stamped after t.
func WithEndTime(t time.Time) func(*CommandIterator) {
	return func(i *CommandIterator) {
		i.endTime = &t
	}
}

// WithTimeRange bounds the iteration to [startTime, endTime].
func WithTimeRange(startTime, endTime time.Time) func(*CommandIterator) {
	return func(i *CommandIterator) {
		i.startTime = &startTime
		i.endTime = &endTime
	}
}

// CommandIterator streams the commands of one session in timestamp order.
type CommandIterator struct {
	startTime *time.Time
	endTime   *time.Time

	rows    *sql.Rows
	current Record
	err     error
}

// Commands returns an iterator over a session's commands, optionally
// bounded by time.
func (s *Store) Commands(ctx context.Context, sessionID int64, options ...func(*CommandIterator)) (*CommandIterator, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var iter CommandIterator
	for _, option := range options {
		option(&iter)
	}

	query := selectCommandsSQL
	args := []any{sessionID}
	if iter.startTime != nil {
		query += " AND timestamp >= ?"
		args = append(args, iter.startTime.UnixNano())
	}
	if iter.endTime != nil {
		query += " AND timestamp <= ?"
		args = append(args, iter.endTime.UnixNano())
	}
	query += " ORDER BY timestamp"

	if iter.rows, err = db.QueryContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	return &iter, nil
}

// Next advances the iterator. It returns false at the end of data or on
// error; check Err to tell the two apart.
func (i *CommandIterator) Next() bool {
	if i.err != nil || !i.rows.Next() {
		if i.err == nil {
			i.err = i.rows.Err()
		}
		return false
	}

	var (
		rec           Record
		timestampNs   int64
		mode          uint32
		enable, yawOK int
		p             *setpoint.Packet = &rec.Packet
	)
	err := i.rows.Scan(
		&rec.ID,
		&rec.SessionID,
		&timestampNs,
		&mode,
		&enable,
		&yawOK,
		&p.Position.X, &p.Position.Y, &p.Position.Z,
		&p.Velocity.X, &p.Velocity.Y, &p.Velocity.Z,
		&p.Acceleration.X, &p.Acceleration.Y, &p.Acceleration.Z,
		&p.Attitude.Roll, &p.Attitude.Pitch, &p.Attitude.Yaw, &p.Attitude.Thrust,
		&p.AttitudeRate.X, &p.AttitudeRate.Y, &p.AttitudeRate.Z,
	)
	if err != nil {
		i.err = fmt.Errorf("scanning command: %w", err)
		return false
	}

	p.Timestamp = time.Unix(0, timestampNs).UTC()
	p.Mode = setpoint.Mode(mode)
	p.Enable = enable != 0
	p.YawControl = yawOK != 0

	i.current = rec
	return true
}

// Current returns the command at the iterator position. Undefined after
// Next returns false.
func (i *CommandIterator) Current() Record {
	return i.current
}

// Err returns the first error seen during iteration, if any.
func (i *CommandIterator) Err() error {
	return i.err
}

// Close releases the underlying rows.
func (i *CommandIterator) Close() error {
	return i.rows.Close()
}
