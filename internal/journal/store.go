package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one recorded run of the input loop.
type Session struct {
	ID        string
	Profile   string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Press is a single matched action press within a session.
type Press struct {
	SessionID string
	Action    string
	Key       string
	PressedAt time.Time
}

// ActionCount aggregates presses per action for a session.
type ActionCount struct {
	Action string
	Count  int64
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// BeginSession inserts a new session row and returns it.
func (s *Store) BeginSession(ctx context.Context, profile string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		StartedAt: Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, profile, started_at)
		VALUES (?, ?, ?)`,
		sess.ID, sess.Profile, sess.StartedAt)
	if err != nil {
		return Session{}, fmt.Errorf("begin session: %w", err)
	}
	return sess, nil
}

// EndSession stamps ended_at on an open session.
func (s *Store) EndSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		Now(), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("end session: no open session %s", id)
	}
	return nil
}

// RecordPress appends one press to the session journal.
func (s *Store) RecordPress(ctx context.Context, p Press) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO presses (session_id, action, key_name, pressed_at)
		VALUES (?, ?, ?, ?)`,
		p.SessionID, p.Action, p.Key, p.PressedAt.UTC())
	if err != nil {
		return fmt.Errorf("record press: %w", err)
	}
	return nil
}

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile, started_at, ended_at
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Profile, &sess.StartedAt, &sess.EndedAt); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Presses returns a session's presses in the order they happened.
func (s *Store) Presses(ctx context.Context, sessionID string) ([]Press, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, action, key_name, pressed_at
		FROM presses
		WHERE session_id = ?
		ORDER BY pressed_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Press
	for rows.Next() {
		var p Press
		if err := rows.Scan(&p.SessionID, &p.Action, &p.Key, &p.PressedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ActionCounts returns per-action press totals for a session, busiest first.
func (s *Store) ActionCounts(ctx context.Context, sessionID string) ([]ActionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*) AS n
		FROM presses
		WHERE session_id = ?
		GROUP BY action
		ORDER BY n DESC, action ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActionCount
	for rows.Next() {
		var ac ActionCount
		if err := rows.Scan(&ac.Action, &ac.Count); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}
