package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/model"
)

type ContactRepository interface {
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	FindByEmail(ctx context.Context, email string) (*model.Contact, error)
	Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error)
	SetPortalCredentials(ctx context.Context, id, passwordHash string) error
	DisablePortal(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

type contactRepo struct {
	db database.DBTX
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE id = $1`, id)
	return HandleNotFound(&contact, err)
}

func (r *contactRepo) FindByEmail(ctx context.Context, email string) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE email = $1`, email)
	return HandleNotFound(&contact, err)
}

func (r *contactRepo) Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `
		INSERT INTO contacts (first_name, last_name, email, phone, company)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.FirstName, params.LastName, params.Email, params.Phone, params.Company)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// SetPortalCredentials overwrites any previous hash; a contact holds at most
// one active portal password.
func (r *contactRepo) SetPortalCredentials(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET portal_enabled = TRUE, portal_password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash)
	return err
}

func (r *contactRepo) DisablePortal(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET portal_enabled = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *contactRepo) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET last_login_at = $2 WHERE id = $1
	`, id, time.Now())
	return err
}
