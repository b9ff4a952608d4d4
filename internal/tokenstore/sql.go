package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/db"
	"fitmrp-client/internal/logger"

	"go.uber.org/zap"
)

// SQLStore keeps sealed sessions in the credentials table.
type SQLStore struct {
	db      *sql.DB
	dialect db.Dialect
	sealer  *Sealer
	now     func() time.Time
}

func NewSQLStore(conn *sql.DB, dialect db.Dialect, sealer *Sealer) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect, sealer: sealer, now: time.Now}
}

func (s *SQLStore) Save(ctx context.Context, profile string, sess *auth.Session) error {
	log := logger.FromCtx(ctx).With(zap.String("profile", profile))

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	sealed, err := s.sealer.Seal(payload)
	if err != nil {
		return err
	}

	query := db.Rebind(s.dialect, `
		INSERT INTO credentials (profile, sealed, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile) DO UPDATE
		SET sealed = EXCLUDED.sealed, updated_at = EXCLUDED.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, profile, sealed, s.now().UTC()); err != nil {
		log.Error("failed to save session", zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}

	log.Debug("session saved")
	return nil
}

func (s *SQLStore) Load(ctx context.Context, profile string) (*auth.Session, error) {
	var sealed string
	query := db.Rebind(s.dialect, `SELECT sealed FROM credentials WHERE profile = $1`)

	err := s.db.QueryRowContext(ctx, query, profile).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	plain, err := s.sealer.Open(sealed)
	if err != nil {
		logger.FromCtx(ctx).Warn("stored session unreadable", zap.String("profile", profile), zap.Error(err))
		return nil, err
	}

	var sess auth.Session
	if err := json.Unmarshal(plain, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SQLStore) Clear(ctx context.Context, profile string) error {
	query := db.Rebind(s.dialect, `DELETE FROM credentials WHERE profile = $1`)
	if _, err := s.db.ExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
