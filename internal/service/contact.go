package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/credential"
	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/repository"
)

// ContactService manages portal enablement for contacts.
type ContactService struct {
	contactRepo repository.ContactRepository
	sessionRepo repository.PortalSessionRepository
}

func NewContactService(
	contactRepo repository.ContactRepository,
	sessionRepo repository.PortalSessionRepository,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		sessionRepo: sessionRepo,
	}
}

// EnablePortal hashes the password, stores the record, and sets the portal
// flag. Re-enabling overwrites the previous hash; a contact holds at most one
// active portal password.
func (s *ContactService) EnablePortal(ctx context.Context, contactID, password string) error {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return apperrors.Database(err)
	}
	if contact == nil {
		return apperrors.NotFound("Contact")
	}
	if contact.Email == nil || *contact.Email == "" {
		return apperrors.ValidationError("Contact has no email; portal login requires one")
	}
	if password == "" {
		return apperrors.MissingRequired("password")
	}

	hash, err := credential.Hash(password)
	if err != nil {
		return apperrors.Internal("Failed to hash password").WithCause(err)
	}

	if err := s.contactRepo.SetPortalCredentials(ctx, contactID, hash); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("contactId", contactID).Msg("portal access enabled")
	return nil
}

// DisablePortal clears the flag and revokes the contact's open sessions.
// Outstanding access tokens are unaffected; they expire on their own.
func (s *ContactService) DisablePortal(ctx context.Context, contactID string) error {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return apperrors.Database(err)
	}
	if contact == nil {
		return apperrors.NotFound("Contact")
	}

	if err := s.contactRepo.DisablePortal(ctx, contactID); err != nil {
		return apperrors.Database(err)
	}
	if err := s.sessionRepo.DeleteByContactID(ctx, contactID); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("contactId", contactID).Msg("portal access disabled")
	return nil
}
