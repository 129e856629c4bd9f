package services

import (
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *auth.TokenManager) {
	t.Helper()
	env := newTestEnv(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewUserService(
		repository.NewUserRepository(env.db),
		repository.NewCustomerRepository(env.db),
		tokens,
	)
	return svc, tokens
}

func TestUserService_Register(t *testing.T) {
	t.Run("self registration always yields a customer account", func(t *testing.T) {
		svc, tokens := newUserService(t)

		user, err := svc.Register(t.Context(), model.UserCreateRequest{
			Email:    "neu@example.com",
			Password: "geheim123",
			Name:     "Neuer Nutzer",
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleCustomer, user.Role)
		assert.True(t, user.Active)

		token, _, err := svc.Login(t.Context(), "neu@example.com", "geheim123")
		require.NoError(t, err)

		actor, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.False(t, actor.IsStaff())
		assert.False(t, actor.IsAdmin())
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, err := svc.Register(t.Context(), model.UserCreateRequest{
			Email:    "kurz@example.com",
			Password: "kurz",
			Name:     "Kurz",
		})
		require.Error(t, err)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, err := svc.Register(t.Context(), model.UserCreateRequest{
			Email:    "doppelt@example.com",
			Password: "geheim123",
			Name:     "Erste",
		})
		require.NoError(t, err)

		_, err = svc.Register(t.Context(), model.UserCreateRequest{
			Email:    "doppelt@example.com",
			Password: "geheim123",
			Name:     "Zweite",
		})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, err := svc.Register(t.Context(), model.UserCreateRequest{
			Email:    "anna@example.com",
			Password: "geheim123",
			Name:     "Anna",
		})
		require.NoError(t, err)

		_, _, err = svc.Login(t.Context(), "anna@example.com", "falsch123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, _, err := svc.Login(t.Context(), "niemand@example.com", "geheim123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
