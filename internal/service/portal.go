package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/repository"
)

// PortalService is the authorization gate: it assembles the read-only view a
// portal visitor is entitled to, from either access path.
//
// The two paths fail differently on purpose. A token exists to show one
// specific job, so any broken link in its chain fails the whole request; a
// session's dashboard lists many jobs and stays usable when one historical
// chain is inconsistent, omitting it instead.
type PortalService struct {
	tokenService *TokenService
	contactRepo  repository.ContactRepository
	quoteRepo    repository.QuoteRepository
	contractRepo repository.ContractRepository
	jobRepo      repository.JobRepository
	fileRepo     repository.JobFileRepository
	invoiceRepo  repository.InvoiceRepository
}

func NewPortalService(
	tokenService *TokenService,
	contactRepo repository.ContactRepository,
	quoteRepo repository.QuoteRepository,
	contractRepo repository.ContractRepository,
	jobRepo repository.JobRepository,
	fileRepo repository.JobFileRepository,
	invoiceRepo repository.InvoiceRepository,
) *PortalService {
	return &PortalService{
		tokenService: tokenService,
		contactRepo:  contactRepo,
		quoteRepo:    quoteRepo,
		contractRepo: contractRepo,
		jobRepo:      jobRepo,
		fileRepo:     fileRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// ResolveByToken resolves a bearer token to the full view of its bound job.
// All-or-nothing: a missing job, contract, quote, or contact fails the whole
// request with the same signal as an unknown token.
func (s *PortalService) ResolveByToken(ctx context.Context, token string) (*model.PortalView, error) {
	jobID, err := s.tokenService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	view, err := s.assembleView(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		log.Warn().Str("jobId", jobID).Msg("token resolved but view chain is broken")
		return nil, apperrors.TokenNotFound()
	}
	return view, nil
}

// ResolveBySession lists the full views of every job reachable from the
// contact's quotes and contracts. Broken chains are skipped, not surfaced.
func (s *PortalService) ResolveBySession(ctx context.Context, contactID string) ([]model.PortalView, error) {
	quotes, err := s.quoteRepo.FindByContactID(ctx, contactID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	views := []model.PortalView{}
	for _, quote := range quotes {
		contracts, err := s.contractRepo.FindByQuoteID(ctx, quote.ID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		for _, contract := range contracts {
			jobs, err := s.jobRepo.FindByContractID(ctx, contract.ID)
			if err != nil {
				return nil, apperrors.Database(err)
			}
			for _, job := range jobs {
				view, err := s.assembleView(ctx, job.ID)
				if err != nil {
					return nil, err
				}
				if view == nil {
					log.Debug().Str("jobId", job.ID).Msg("skipping job with broken view chain")
					continue
				}
				views = append(views, *view)
			}
		}
	}

	return views, nil
}

// assembleView walks job -> contract -> quote -> contact and gathers files
// and invoices. Returns nil (no error) when any link is missing; the caller
// decides whether that is fatal.
func (s *PortalService) assembleView(ctx context.Context, jobID string) (*model.PortalView, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if job == nil {
		return nil, nil
	}

	contract, err := s.contractRepo.FindByID(ctx, job.ContractID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if contract == nil {
		return nil, nil
	}

	quote, err := s.quoteRepo.FindByID(ctx, contract.QuoteID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if quote == nil {
		return nil, nil
	}

	contact, err := s.contactRepo.FindByID(ctx, quote.ContactID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if contact == nil {
		return nil, nil
	}

	files, err := s.fileRepo.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	invoices, err := s.invoiceRepo.FindByContractID(ctx, contract.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &model.PortalView{
		Job:      *job,
		Contract: *contract,
		Quote:    *quote,
		Contact:  *contact,
		Files:    files,
		Invoices: invoices,
	}, nil
}
