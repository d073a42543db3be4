// Package flightlog persists transmitted and received setpoint commands to
// a sqlite database for post-flight review. One database holds any number
// of sessions; every command row keeps the full wire field set, which is
// NULL-free because the wire format zero-fills unused subsets.
package flightlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alireza787b/drone-teleop/internal/setpoint"
)

// Session roles: who produced the rows.
const (
	RoleSender  = "sender"
	RoleMonitor = "monitor"
)

// Session describes one recording run.
type Session struct {
	ID         int64
	StartedAt  time.Time
	Role       string
	Profile    string
	RemoteAddr string
	Config     sql.NullString
}

// Record is one logged command.
type Record struct {
	ID        int64
	SessionID int64
	Packet    setpoint.Packet
}

// Store handles database operations. Write and read connections are opened
// lazily and independently, so a pure reader (traceplot) never creates or
// migrates a database.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a Store for the database at dbPath. No connection is opened
// until first use.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession inserts a new session row and returns its identifier.
// config may be nil, a string, a []byte, or any JSON-serializable value.
func (s *Store) CreateSession(ctx context.Context, role, profile, remoteAddr string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, role, profile, remoteAddr, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	if sessionID, err = result.LastInsertId(); err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// Session retrieves one session by ID, nil when not found.
func (s *Store) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var sess Session
	err = db.QueryRowContext(ctx, selectSessionSQL, id).
		Scan(&sess.ID, &sess.StartedAt, &sess.Role, &sess.Profile, &sess.RemoteAddr, &sess.Config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &sess, nil
}

// Sessions returns all sessions ordered by start time.
func (s *Store) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		if err = rows.Scan(&sess.ID, &sess.StartedAt, &sess.Role, &sess.Profile, &sess.RemoteAddr, &sess.Config); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// RecordCommand appends one command to a session.
func (s *Store) RecordCommand(ctx context.Context, sessionID int64, p setpoint.Packet) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertCommandSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	_, err = stmt.ExecContext(ctx,
		sessionID,
		p.Timestamp.UnixNano(),
		uint32(p.Mode),
		boolToInt(p.Enable),
		boolToInt(p.YawControl),
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
		p.Acceleration.X, p.Acceleration.Y, p.Acceleration.Z,
		p.Attitude.Roll, p.Attitude.Pitch, p.Attitude.Yaw, p.Attitude.Thrust,
		p.AttitudeRate.X, p.AttitudeRate.Y, p.AttitudeRate.Z,
	)
	if err != nil {
		return fmt.Errorf("inserting command: %w", err)
	}
	return nil
}

// Close releases all database connections. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.writeDB != nil {
			if err := s.writeDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing write connection: %w", err))
			}
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing read connection: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// SessionRecorder binds a store to one session so it satisfies the transmit
// loop's Recorder interface.
type SessionRecorder struct {
	store     *Store
	sessionID int64
}

// NewSessionRecorder returns a Recorder appending to the given session.
func NewSessionRecorder(store *Store, sessionID int64) *SessionRecorder {
	return &SessionRecorder{store: store, sessionID: sessionID}
}

// Record implements command.Recorder.
func (r *SessionRecorder) Record(ctx context.Context, p setpoint.Packet) error {
	return r.store.RecordCommand(ctx, r.sessionID, p)
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
