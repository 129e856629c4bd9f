package services

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type DogService struct {
	dogs      *repository.DogRepository
	customers *repository.CustomerRepository
}

func NewDogService(dogs *repository.DogRepository, customers *repository.CustomerRepository) *DogService {
	return &DogService{dogs: dogs, customers: customers}
}

func (s *DogService) Create(ctx context.Context, req model.DogCreateRequest) (*model.Dog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	return s.dogs.Create(ctx, &model.Dog{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		Breed:      req.Breed,
		BirthDate:  req.BirthDate,
		Gender:     req.Gender,
		Neutered:   req.Neutered,
		Notes:      req.Notes,
	})
}

func (s *DogService) Get(ctx context.Context, id int64) (*model.Dog, error) {
	return s.dogs.Get(ctx, id)
}

func (s *DogService) List(ctx context.Context, f model.DogFilter) ([]*model.Dog, int64, error) {
	return s.dogs.List(ctx, f)
}

func (s *DogService) Update(ctx context.Context, d *model.Dog) (*model.Dog, error) {
	return s.dogs.Update(ctx, d)
}

func (s *DogService) Delete(ctx context.Context, id int64) error {
	return s.dogs.Delete(ctx, id)
}
