package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/model"
)

type QuoteRepository interface {
	FindByID(ctx context.Context, id string) (*model.Quote, error)
	FindByContactID(ctx context.Context, contactID string) ([]model.Quote, error)
}

type quoteRepo struct {
	db database.DBTX
}

func NewQuoteRepository(db *sqlx.DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) FindByID(ctx context.Context, id string) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.GetContext(ctx, &quote, `SELECT * FROM quotes WHERE id = $1`, id)
	return HandleNotFound(&quote, err)
}

func (r *quoteRepo) FindByContactID(ctx context.Context, contactID string) ([]model.Quote, error) {
	quotes := []model.Quote{}
	err := r.db.SelectContext(ctx, &quotes, `
		SELECT * FROM quotes WHERE contact_id = $1 ORDER BY created_at DESC
	`, contactID)
	return quotes, err
}

type ContractRepository interface {
	FindByID(ctx context.Context, id string) (*model.Contract, error)
	FindByQuoteID(ctx context.Context, quoteID string) ([]model.Contract, error)
}

type contractRepo struct {
	db database.DBTX
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) FindByID(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE id = $1`, id)
	return HandleNotFound(&contract, err)
}

func (r *contractRepo) FindByQuoteID(ctx context.Context, quoteID string) ([]model.Contract, error) {
	contracts := []model.Contract{}
	err := r.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts WHERE quote_id = $1 ORDER BY created_at DESC
	`, quoteID)
	return contracts, err
}

type InvoiceRepository interface {
	FindByContractID(ctx context.Context, contractID string) ([]model.Invoice, error)
}

type invoiceRepo struct {
	db database.DBTX
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) FindByContractID(ctx context.Context, contractID string) ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	err := r.db.SelectContext(ctx, &invoices, `
		SELECT * FROM invoices WHERE contract_id = $1 ORDER BY created_at
	`, contractID)
	return invoices, err
}
