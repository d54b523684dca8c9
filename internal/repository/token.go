package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/task-tracker/internal/models"
)

// RevokeToken records a token id as revoked. Revoking twice is a no-op.
func (r *Repository) RevokeToken(ctx context.Context, token models.RevokedToken) error {
	query := `
		INSERT INTO revoked_token (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, token.JTI, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether jti has been revoked
func (r *Repository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_token WHERE jti = $1)`, jti).
		Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// PruneRevokedTokens deletes revocations that expired before now and returns how many were removed
func (r *Repository) PruneRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_token WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	return n, nil
}
