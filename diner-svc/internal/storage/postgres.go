package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"qr-dine/diner-svc/internal/domain"
)

// PostgresAuthStore keeps auth records in the auth_records table, one row per
// diner session.
type PostgresAuthStore struct {
	DB *sql.DB
}

func NewPostgresAuthStore(db *sql.DB) *PostgresAuthStore {
	return &PostgresAuthStore{DB: db}
}

func (s *PostgresAuthStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS auth_records (
			session_id       TEXT PRIMARY KEY,
			user_json        JSONB,
			access_token     TEXT NOT NULL DEFAULT '',
			refresh_token    TEXT NOT NULL DEFAULT '',
			is_authenticated BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (s *PostgresAuthStore) ForSession(sessionID string) *PostgresAuthPersister {
	return &PostgresAuthPersister{db: s.DB, sessionID: sessionID}
}

type PostgresAuthPersister struct {
	db        *sql.DB
	sessionID string
}

func (p *PostgresAuthPersister) Load(ctx context.Context) (*domain.AuthRecord, error) {
	var (
		userJSON []byte
		record   domain.AuthRecord
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT user_json, access_token, refresh_token, is_authenticated
		FROM auth_records
		WHERE session_id = $1
	`, p.sessionID).Scan(&userJSON, &record.AccessToken, &record.RefreshToken, &record.IsAuthenticated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(userJSON) > 0 && string(userJSON) != "null" {
		var user domain.User
		if err := json.Unmarshal(userJSON, &user); err != nil {
			return nil, err
		}
		record.User = &user
	}
	return &record, nil
}

func (p *PostgresAuthPersister) Save(ctx context.Context, record domain.AuthRecord) error {
	var userJSON []byte
	if record.User != nil {
		payload, err := json.Marshal(record.User)
		if err != nil {
			return err
		}
		userJSON = payload
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO auth_records (session_id, user_json, access_token, refresh_token, is_authenticated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET user_json = $2, access_token = $3, refresh_token = $4,
			is_authenticated = $5, updated_at = CURRENT_TIMESTAMP
	`, p.sessionID, userJSON, record.AccessToken, record.RefreshToken, record.IsAuthenticated)
	return err
}

func (p *PostgresAuthPersister) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM auth_records WHERE session_id = $1`, p.sessionID)
	return err
}
