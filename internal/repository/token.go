package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/model"
)

// AccessTokenRepository persists portal access tokens. Expiry is enforced
// lazily in FindActiveByHash; DeleteExpired is hygiene only.
type AccessTokenRepository interface {
	Create(ctx context.Context, params model.CreateAccessTokenParams) (*model.AccessToken, error)
	FindActiveByHash(ctx context.Context, tokenHash string) (*model.AccessToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type accessTokenRepo struct {
	db database.DBTX
}

func NewAccessTokenRepository(db *sqlx.DB) AccessTokenRepository {
	return &accessTokenRepo{db: db}
}

func (r *accessTokenRepo) Create(ctx context.Context, params model.CreateAccessTokenParams) (*model.AccessToken, error) {
	var token model.AccessToken
	err := r.db.GetContext(ctx, &token, `
		INSERT INTO access_tokens (token_hash, job_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.TokenHash, params.JobID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// FindActiveByHash returns nil for expired rows as well as missing ones, so
// callers cannot tell the two apart.
func (r *accessTokenRepo) FindActiveByHash(ctx context.Context, tokenHash string) (*model.AccessToken, error) {
	var token model.AccessToken
	err := r.db.GetContext(ctx, &token, `
		SELECT * FROM access_tokens
		WHERE token_hash = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, tokenHash)
	return HandleNotFound(&token, err)
}

func (r *accessTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM access_tokens WHERE expires_at IS NOT NULL AND expires_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
