package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/credential"
	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/repository"
	"github.com/brixwork/portal-server/internal/util"
)

// AuthService is the session authority for portal visitors: email+password
// login, logout, and identity lookup. Every login failure cause collapses to
// the same generic error so responses cannot enumerate portal emails.
type AuthService struct {
	contactRepo   repository.ContactRepository
	sessionRepo   repository.PortalSessionRepository
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(
	contactRepo repository.ContactRepository,
	sessionRepo repository.PortalSessionRepository,
	sessionSecret string,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		contactRepo:   contactRepo,
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
	}
}

// Login verifies credentials and establishes a session. The session row is
// durably inserted before success is returned; a storage failure there
// surfaces loudly rather than reporting a login that later requests cannot
// see. The returned string is the raw session token for the cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.PortalSession, error) {
	contact, err := s.contactRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.Database(err)
	}
	if contact == nil || !contact.PortalEnabled || contact.PortalPasswordHash == nil {
		log.Warn().Str("email", email).Msg("portal login rejected")
		return "", nil, apperrors.AuthFailed()
	}

	if !credential.Verify(password, *contact.PortalPasswordHash) {
		log.Warn().Str("contactId", contact.ID).Msg("portal login rejected")
		return "", nil, apperrors.AuthFailed()
	}

	if err := s.contactRepo.UpdateLastLogin(ctx, contact.ID); err != nil {
		log.Error().Err(err).Str("contactId", contact.ID).Msg("failed to record last login")
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", nil, apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	session, err := s.sessionRepo.Create(ctx, model.CreatePortalSessionParams{
		TokenHash: util.HmacSHA256(s.sessionSecret, token),
		ContactID: contact.ID,
		Email:     email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", nil, apperrors.Database(err)
	}

	log.Info().Str("contactId", contact.ID).Msg("portal login")

	return token, session, nil
}

// Logout destroys the session behind the token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	session, err := s.sessionRepo.FindByTokenHash(ctx, util.HmacSHA256(s.sessionSecret, token))
	if err != nil {
		return apperrors.Database(err)
	}
	if session == nil {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("contactId", session.ContactID).Msg("portal logout")
	return nil
}

// CurrentIdentity is a pure lookup with no side effects. A missing or expired
// session returns nil, nil.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (*model.ContactIdentity, error) {
	session, err := s.sessionRepo.FindByTokenHash(ctx, util.HmacSHA256(s.sessionSecret, token))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, nil
	}
	identity := session.Identity()
	return &identity, nil
}
