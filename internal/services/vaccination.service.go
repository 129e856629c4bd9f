package services

import (
	"context"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type VaccinationService struct {
	vaccinations *repository.VaccinationRepository
	dogs         *repository.DogRepository
}

func NewVaccinationService(vaccinations *repository.VaccinationRepository, dogs *repository.DogRepository) *VaccinationService {
	return &VaccinationService{vaccinations: vaccinations, dogs: dogs}
}

func (s *VaccinationService) Create(ctx context.Context, req model.VaccinationCreateRequest) (*model.Vaccination, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.dogs.Get(ctx, req.DogID); err != nil {
		return nil, err
	}
	return s.vaccinations.Create(ctx, &model.Vaccination{
		DogID:           req.DogID,
		VaccineName:     req.VaccineName,
		VaccinationDate: req.VaccinationDate,
		ExpiryDate:      req.ExpiryDate,
		Veterinarian:    req.Veterinarian,
		Notes:           req.Notes,
	})
}

func (s *VaccinationService) Get(ctx context.Context, id int64) (*model.Vaccination, error) {
	return s.vaccinations.Get(ctx, id)
}

func (s *VaccinationService) List(ctx context.Context, f model.VaccinationFilter) ([]*model.Vaccination, int64, error) {
	return s.vaccinations.List(ctx, f)
}

// ListExpiring returns vaccinations whose protection runs out within the
// given window.
func (s *VaccinationService) ListExpiring(ctx context.Context, within time.Duration) ([]*model.Vaccination, int64, error) {
	deadline := time.Now().Add(within)
	return s.vaccinations.List(ctx, model.VaccinationFilter{ExpiresBefore: &deadline})
}

func (s *VaccinationService) Update(ctx context.Context, v *model.Vaccination) (*model.Vaccination, error) {
	return s.vaccinations.Update(ctx, v)
}

func (s *VaccinationService) Delete(ctx context.Context, id int64) error {
	return s.vaccinations.Delete(ctx, id)
}
