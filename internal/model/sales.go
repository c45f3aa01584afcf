package model

import (
	"time"
)

// Quote is the root of the ownership chain: a job belongs to the contact on
// the quote behind its contract.
type Quote struct {
	ID        string    `db:"id" json:"id"`
	ContactID string    `db:"contact_id" json:"contactId"`
	Title     string    `db:"title" json:"title"`
	Total     int64     `db:"total_cents" json:"totalCents"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Contract struct {
	ID        string     `db:"id" json:"id"`
	QuoteID   string     `db:"quote_id" json:"quoteId"`
	SignedAt  *time.Time `db:"signed_at" json:"signedAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type Invoice struct {
	ID         string     `db:"id" json:"id"`
	ContractID string     `db:"contract_id" json:"contractId"`
	Number     string     `db:"number" json:"number"`
	Amount     int64      `db:"amount_cents" json:"amountCents"`
	DueAt      *time.Time `db:"due_at" json:"dueAt,omitempty"`
	PaidAt     *time.Time `db:"paid_at" json:"paidAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}
