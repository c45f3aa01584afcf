package model

import (
	"time"
)

// PortalSession is the server-held identity for a logged-in portal visitor.
// The token itself is delivered as a cookie; only its HMAC is stored. Unlike
// an access token, a session spans every job reachable from the contact.
type PortalSession struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ContactID string    `db:"contact_id" json:"contactId"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreatePortalSessionParams struct {
	TokenHash string
	ContactID string
	Email     string
	FirstName string
	LastName  string
	ExpiresAt time.Time
}

// ContactIdentity is the authenticated identity carried by a session.
type ContactIdentity struct {
	ContactID string `json:"contactId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *PortalSession) Identity() ContactIdentity {
	return ContactIdentity{
		ContactID: s.ContactID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
