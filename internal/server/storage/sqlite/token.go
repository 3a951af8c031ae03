package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RevokeToken marks access token id as revoked until it expires
func (s *Storage) RevokeToken(ctx context.Context, tokenID, userID string, expiresAt time.Time) error {
	query := `
		INSERT OR REPLACE INTO revoked_tokens (token_id, user_id, expires_at)
		VALUES (?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, tokenID, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked reports whether access token id was revoked
func (s *Storage) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	query := `SELECT 1 FROM revoked_tokens WHERE token_id = ?`

	var one int
	err := s.db.QueryRowContext(ctx, query, tokenID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return true, nil
}

// DeleteExpiredRevocations removes revocations of already expired tokens
func (s *Storage) DeleteExpiredRevocations(ctx context.Context) (int, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
