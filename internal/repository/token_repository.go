package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TokenRepo persists revoked access token identifiers. Logout inserts the
// token's jti and natural expiry; the JWT middleware consults IsRevoked on
// every authenticated call. Rows past their expiry are harmless (the token
// would be rejected as expired anyway) and can be purged opportunistically.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Revoke records a jti in the blacklist. Revoking the same jti twice is a
// no-op rather than an error.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_blacklist (jti, expires) VALUES (?,?)",
		jti, expires.UTC())
	if err != nil && strings.Contains(err.Error(), "1062") {
		return nil
	}
	return err
}

// IsRevoked reports whether the jti appears in the blacklist.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM token_blacklist WHERE jti=? LIMIT 1", jti).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes blacklist rows whose tokens are past their natural
// expiry and returns how many were removed.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM token_blacklist WHERE expires < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
