package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mediamend/internal/services"
)

// CookieName is the cookie carrying the session token on API requests.
const CookieName = "mediamend_session"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

// Session is one issued token.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the session database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}

	return &Store{db: db, path: dbPath, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create issues a new session for username with the given lifetime.
func (s *Store) Create(ctx context.Context, username string, ttl time.Duration) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, services.Wrap(services.ErrValidation, "sessions", "create", "username is required", nil)
	}
	if ttl <= 0 {
		return Session{}, services.Wrap(services.ErrValidation, "sessions", "create", "ttl must be positive", nil)
	}

	now := s.now()
	session := Session{
		Token:     strings.ReplaceAll(uuid.New().String(), "-", ""),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, username, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		session.Token, session.Username, session.CreatedAt.UnixMilli(), session.ExpiresAt.UnixMilli())
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// Lookup resolves a token to its session. It returns (nil, nil) when the
// token is unknown or expired.
func (s *Store) Lookup(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT token, username, created_at, expires_at FROM sessions WHERE token = ?`, token)

	var (
		session   Session
		createdAt int64
		expiresAt int64
	)
	if err := row.Scan(&session.Token, &session.Username, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	session.CreatedAt = time.UnixMilli(createdAt)
	session.ExpiresAt = time.UnixMilli(expiresAt)

	if session.Expired(s.now()) {
		return nil, nil
	}
	return &session, nil
}

// Revoke deletes a session by token.
func (s *Store) Revoke(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, strings.TrimSpace(token))
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "sessions", "revoke", "unknown token", nil)
	}
	return nil
}

// List returns all sessions, newest first, including expired ones that have
// not been purged yet.
func (s *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, username, created_at, expires_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			session   Session
			createdAt int64
			expiresAt int64
		)
		if err := rows.Scan(&session.Token, &session.Username, &createdAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.CreatedAt = time.UnixMilli(createdAt)
		session.ExpiresAt = time.UnixMilli(expiresAt)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// PurgeExpired removes sessions past their expiry and reports how many.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
