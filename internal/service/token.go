package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/repository"
	"github.com/brixwork/portal-server/internal/util"
)

// TokenService issues and resolves portal access tokens. Tokens are bearer
// credentials scoped to one job; any number may be live for the same job at
// once, and none can be revoked before its natural expiry.
type TokenService struct {
	tokenRepo repository.AccessTokenRepository
	jobRepo   repository.JobRepository
}

func NewTokenService(
	tokenRepo repository.AccessTokenRepository,
	jobRepo repository.JobRepository,
) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		jobRepo:   jobRepo,
	}
}

// Issue creates a token for jobID and returns the raw token string, the only
// time it is ever available; storage keeps the hash. A ttl of zero or less
// produces an already-expired token.
func (s *TokenService) Issue(ctx context.Context, jobID string, ttl time.Duration) (string, *model.AccessToken, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return "", nil, apperrors.Database(err)
	}
	if job == nil {
		return "", nil, apperrors.NotFound("Job")
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", nil, apperrors.Internal("Failed to generate token").WithCause(err)
	}

	expiresAt := time.Now().Add(ttl)
	record, err := s.tokenRepo.Create(ctx, model.CreateAccessTokenParams{
		TokenHash: util.HashToken(token),
		JobID:     jobID,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		return "", nil, apperrors.Database(err)
	}

	log.Info().
		Str("jobId", jobID).
		Time("expiresAt", expiresAt).
		Msg("portal access token issued")

	return token, record, nil
}

// Resolve returns the job id bound to a live token. Unknown and expired
// tokens surface as the same error; callers never learn which.
func (s *TokenService) Resolve(ctx context.Context, token string) (string, error) {
	record, err := s.tokenRepo.FindActiveByHash(ctx, util.HashToken(token))
	if err != nil {
		return "", apperrors.Database(err)
	}
	if record == nil || record.IsExpired() {
		return "", apperrors.TokenNotFound()
	}
	return record.JobID, nil
}
