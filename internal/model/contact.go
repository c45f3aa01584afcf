package model

import (
	"time"
)

// Contact is a person or organization the business deals with. Email, when
// present, is unique and is the sole lookup key for portal login.
type Contact struct {
	ID                 string     `db:"id" json:"id"`
	FirstName          string     `db:"first_name" json:"firstName"`
	LastName           string     `db:"last_name" json:"lastName"`
	Email              *string    `db:"email" json:"email,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Company            *string    `db:"company" json:"company,omitempty"`
	PortalEnabled      bool       `db:"portal_enabled" json:"portalEnabled"`
	PortalPasswordHash *string    `db:"portal_password_hash" json:"-"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateContactParams struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Company   *string
}
