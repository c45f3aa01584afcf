package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brixwork/portal-server/internal/credential"
	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/model"
)

func TestContactService_EnablePortal(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and sets the flag", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		sessionRepo := new(mockSessionRepo)

		email := "a@x.com"
		contactRepo.On("FindByID", mock.Anything, "c-1").
			Return(&model.Contact{ID: "c-1", Email: &email}, nil)

		var storedHash string
		contactRepo.On("SetPortalCredentials", mock.Anything, "c-1", mock.MatchedBy(func(hash string) bool {
			storedHash = hash
			return hash != "secret"
		})).Return(nil)

		svc := NewContactService(contactRepo, sessionRepo)
		require.NoError(t, svc.EnablePortal(ctx, "c-1", "secret"))

		// stored record verifies the original password
		assert.True(t, credential.Verify("secret", storedHash))
		assert.False(t, credential.Verify("wrong", storedHash))
	})

	t.Run("requires an email on the contact", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		sessionRepo := new(mockSessionRepo)

		contactRepo.On("FindByID", mock.Anything, "c-1").
			Return(&model.Contact{ID: "c-1"}, nil)

		svc := NewContactService(contactRepo, sessionRepo)
		err := svc.EnablePortal(ctx, "c-1", "secret")

		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
		contactRepo.AssertNotCalled(t, "SetPortalCredentials")
	})

	t.Run("requires a password", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		sessionRepo := new(mockSessionRepo)

		email := "a@x.com"
		contactRepo.On("FindByID", mock.Anything, "c-1").
			Return(&model.Contact{ID: "c-1", Email: &email}, nil)

		svc := NewContactService(contactRepo, sessionRepo)
		err := svc.EnablePortal(ctx, "c-1", "")

		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("unknown contact is not found", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		sessionRepo := new(mockSessionRepo)

		contactRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

		svc := NewContactService(contactRepo, sessionRepo)
		err := svc.EnablePortal(ctx, "missing", "secret")

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestContactService_DisablePortal(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the flag and revokes open sessions", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		sessionRepo := new(mockSessionRepo)

		contactRepo.On("FindByID", mock.Anything, "c-1").
			Return(&model.Contact{ID: "c-1", PortalEnabled: true}, nil)
		contactRepo.On("DisablePortal", mock.Anything, "c-1").Return(nil)
		sessionRepo.On("DeleteByContactID", mock.Anything, "c-1").Return(nil)

		svc := NewContactService(contactRepo, sessionRepo)
		require.NoError(t, svc.DisablePortal(ctx, "c-1"))

		sessionRepo.AssertCalled(t, "DeleteByContactID", mock.Anything, "c-1")
	})
}
