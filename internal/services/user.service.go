package services

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type UserService struct {
	users     *repository.UserRepository
	customers *repository.CustomerRepository
	tokens    *auth.TokenManager
}

func NewUserService(users *repository.UserRepository, customers *repository.CustomerRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, customers: customers, tokens: tokens}
}

// Register creates a customer role account. Trainer and admin accounts are
// provisioned out of band; self-registration never grants a staff role.
func (s *UserService) Register(ctx context.Context, req model.UserCreateRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleCustomer,
		Active:       true,
	})
}

// Login verifies credentials and returns a signed access token. Customer
// role users get their customer id baked into the token so ownership checks
// need no extra lookup.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, ErrUserInactive
	}

	var customerID *int64
	if user.Role == model.RoleCustomer {
		if customer, err := s.customers.GetByUserID(ctx, user.ID); err == nil {
			customerID = &customer.ID
		}
	}

	token, err := s.tokens.Issue(user, customerID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.Get(ctx, id)
}
