package model

import (
	"time"
)

// AccessToken is a bearer credential bound to exactly one job. Only the
// SHA-256 hash of the token string is stored; the raw token is returned once
// at issue time. A nil ExpiresAt means the token never expires.
type AccessToken struct {
	ID        string     `db:"id" json:"id"`
	TokenHash string     `db:"token_hash" json:"-"`
	JobID     string     `db:"job_id" json:"jobId"`
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type CreateAccessTokenParams struct {
	TokenHash string
	JobID     string
	ExpiresAt *time.Time
}

// IsExpired reports whether the token has passed its expiration. Consumers
// must treat an expired token identically to a nonexistent one.
func (t *AccessToken) IsExpired() bool {
	return t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt)
}
