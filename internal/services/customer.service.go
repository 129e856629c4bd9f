package services

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type CustomerService struct {
	customers *repository.CustomerRepository
}

func NewCustomerService(customers *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.customers.Create(ctx, &model.Customer{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Street:    req.Street,
		ZipCode:   req.ZipCode,
		City:      req.City,
		Notes:     req.Notes,
	})
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	return s.customers.List(ctx, f)
}

func (s *CustomerService) Update(ctx context.Context, id int64, req model.CustomerUpdateRequest) (*model.Customer, error) {
	return s.customers.Update(ctx, id, req)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}
