package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub_backend/internal/models"
)

// SessionRepository defines the interface for auth session database operations.
// A session row records an issued token; logout deletes it and expired rows are
// ignored on lookup.
type SessionRepository interface {
	CreateSession(executor SQLExecutor, session *models.Session) (int64, error)
	FindSessionByToken(token string) (*models.Session, error)
	DeleteSession(executor SQLExecutor, token string) error
	DeleteExpiredSessions(executor SQLExecutor) (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// CreateSession inserts a session row for an issued token.
func (r *sessionRepository) CreateSession(executor SQLExecutor, session *models.Session) (int64, error) {
	query := `INSERT INTO sessions (token, user_id, expires_at)
	          VALUES ($1, $2, $3)
	          RETURNING session_id`

	err := executor.QueryRow(query, session.Token, session.UserID, session.ExpiresAt).Scan(&session.SessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating session: %v", ErrDatabaseError, err)
	}
	return session.SessionID, nil
}

// FindSessionByToken looks up a live session by its token string.
// Expired sessions are treated as not found.
func (r *sessionRepository) FindSessionByToken(token string) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT session_id, token, user_id, expires_at, created_at
	          FROM sessions WHERE token = $1 AND expires_at > $2`

	err := r.db.QueryRow(query, token, time.Now()).Scan(
		&session.SessionID, &session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding session by token: %v", ErrDatabaseError, err)
	}
	return session, nil
}

// DeleteSession removes a session row, invalidating its token.
func (r *sessionRepository) DeleteSession(executor SQLExecutor, token string) error {
	result, err := executor.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("%w: deleting session: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting session: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry. Called
// opportunistically on login; there is no background sweeper.
func (r *sessionRepository) DeleteExpiredSessions(executor SQLExecutor) (int64, error) {
	result, err := executor.Exec(`DELETE FROM sessions WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: deleting expired sessions: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for expired sessions: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}
