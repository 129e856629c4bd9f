package services

import (
	"context"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type CreditService struct {
	credits   *repository.CreditRepository
	customers *repository.CustomerRepository
}

func NewCreditService(credits *repository.CreditRepository, customers *repository.CustomerRepository) *CreditService {
	return &CreditService{credits: credits, customers: customers}
}

/* ------------------------------ packages ---------------------------------- */

func (s *CreditService) CreatePackage(ctx context.Context, req model.CreditPackageCreateRequest) (*model.CreditPackage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.credits.CreatePackage(ctx, &model.CreditPackage{
		Name:         req.Name,
		Description:  req.Description,
		TotalCredits: req.TotalCredits,
		Price:        req.Price,
		ValidityDays: req.ValidityDays,
		Active:       true,
	})
}

func (s *CreditService) GetPackage(ctx context.Context, id int64) (*model.CreditPackage, error) {
	return s.credits.GetPackage(ctx, id)
}

func (s *CreditService) UpdatePackage(ctx context.Context, p *model.CreditPackage) (*model.CreditPackage, error) {
	return s.credits.UpdatePackage(ctx, p)
}

func (s *CreditService) DeletePackage(ctx context.Context, id int64) error {
	return s.credits.DeletePackage(ctx, id)
}

func (s *CreditService) ListPackages(ctx context.Context, activeOnly bool) ([]*model.CreditPackage, error) {
	return s.credits.ListPackages(ctx, activeOnly)
}

/* --------------------------- customer credits ------------------------------ */

// Purchase creates a credit balance from a package. The expiration date is
// derived from the package's validity window; packages without one produce
// credits that never expire.
func (s *CreditService) Purchase(ctx context.Context, req model.CreditPurchaseRequest) (*model.CustomerCredit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	pack, err := s.credits.GetPackage(ctx, req.CreditPackageID)
	if err != nil {
		return nil, err
	}
	if !pack.Active {
		return nil, ErrPackageInactive
	}

	now := time.Now()
	var expiration *time.Time
	if pack.ValidityDays != nil {
		e := now.AddDate(0, 0, *pack.ValidityDays)
		expiration = &e
	}

	return s.credits.CreateCredit(ctx, &model.CustomerCredit{
		CustomerID:       req.CustomerID,
		CreditPackageID:  pack.ID,
		TotalCredits:     pack.TotalCredits,
		RemainingCredits: pack.TotalCredits,
		PurchaseDate:     now,
		ExpirationDate:   expiration,
		Status:           model.CreditStatusActive,
	})
}

func (s *CreditService) Get(ctx context.Context, id int64) (*model.CustomerCredit, error) {
	return s.credits.GetCredit(ctx, id)
}

func (s *CreditService) List(ctx context.Context, f model.CreditFilter) ([]*model.CustomerCredit, int64, error) {
	return s.credits.ListCredits(ctx, f)
}

// UpdateCredit is an admin correction of a purchased balance. The status is
// recomputed from the new balance so that a zero balance always reads used
// and a topped-up used balance becomes active again.
func (s *CreditService) UpdateCredit(ctx context.Context, id int64, req model.CreditUpdateRequest) (*model.CustomerCredit, error) {
	credit, err := s.credits.GetCredit(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RemainingCredits != nil {
		if *req.RemainingCredits < 0 || *req.RemainingCredits > credit.TotalCredits {
			return nil, model.ValidationError("remaining_credits must be between 0 and total_credits")
		}
		credit.RemainingCredits = *req.RemainingCredits
	}
	if req.ExpirationDate != nil {
		credit.ExpirationDate = req.ExpirationDate
	}

	switch {
	case credit.RemainingCredits == 0:
		credit.Status = model.CreditStatusUsed
	case credit.Status == model.CreditStatusUsed:
		credit.Status = model.CreditStatusActive
	}

	return s.credits.UpdateCredit(ctx, credit)
}

func (s *CreditService) DeleteCredit(ctx context.Context, id int64) error {
	return s.credits.DeleteCredit(ctx, id)
}

// Use spends credits from a balance. The pre-checks run in a fixed order so
// the caller always gets the same error for the same state: an exhausted
// balance reports "no credits remaining" even when it is also expired.
func (s *CreditService) Use(ctx context.Context, creditID int64, amount int) (*model.CustomerCredit, error) {
	if amount < 1 {
		amount = 1
	}

	credit, err := s.credits.GetCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}

	if credit.RemainingCredits <= 0 {
		return nil, ErrNoCreditsRemaining
	}
	if credit.Status != model.CreditStatusActive {
		return nil, ErrCreditNotActive
	}
	if credit.ExpirationDate != nil && credit.ExpirationDate.Before(time.Now()) {
		return nil, ErrCreditNotActive
	}

	if err := s.credits.UseCredits(ctx, creditID, amount); err != nil {
		return nil, err
	}

	return s.credits.GetCredit(ctx, creditID)
}
