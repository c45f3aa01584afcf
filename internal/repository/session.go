package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/model"
)

type PortalSessionRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error)
	Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error)
	Delete(ctx context.Context, id string) error
	DeleteByContactID(ctx context.Context, contactID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type portalSessionRepo struct {
	db database.DBTX
}

func NewPortalSessionRepository(db *sqlx.DB) PortalSessionRepository {
	return &portalSessionRepo{db: db}
}

func (r *portalSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM portal_sessions
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *portalSessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO portal_sessions (token_hash, contact_id, email, first_name, last_name, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.TokenHash, params.ContactID, params.Email, params.FirstName, params.LastName, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *portalSessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id)
	return err
}

func (r *portalSessionRepo) DeleteByContactID(ctx context.Context, contactID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE contact_id = $1`, contactID)
	return err
}

func (r *portalSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
