package services

import (
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) purchasedCredit(t *testing.T, customerID int64, total int) *model.CustomerCredit {
	t.Helper()
	pack, err := e.credits.CreatePackage(t.Context(), model.CreditPackageCreateRequest{
		Name:         "Testpaket",
		TotalCredits: total,
		Price:        100,
	})
	require.NoError(t, err)

	credit, err := e.credits.Purchase(t.Context(), model.CreditPurchaseRequest{
		CustomerID:      customerID,
		CreditPackageID: pack.ID,
	})
	require.NoError(t, err)
	return credit
}

func TestCreditService_Purchase(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	days := 90
	pack, err := env.credits.CreatePackage(t.Context(), model.CreditPackageCreateRequest{
		Name:         "10er Karte",
		TotalCredits: 10,
		Price:        200,
		ValidityDays: &days,
	})
	require.NoError(t, err)

	credit, err := env.credits.Purchase(t.Context(), model.CreditPurchaseRequest{
		CustomerID:      customer.ID,
		CreditPackageID: pack.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, credit.TotalCredits)
	assert.Equal(t, 10, credit.RemainingCredits)
	assert.Equal(t, model.CreditStatusActive, credit.Status)
	require.NotNil(t, credit.ExpirationDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 90), *credit.ExpirationDate, time.Minute)
}

func TestCreditService_PurchaseInactivePackage(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	pack, err := env.credits.CreatePackage(t.Context(), model.CreditPackageCreateRequest{
		Name:         "Altpaket",
		TotalCredits: 5,
		Price:        80,
	})
	require.NoError(t, err)
	pack.Active = false
	_, err = env.credits.UpdatePackage(t.Context(), pack)
	require.NoError(t, err)

	_, err = env.credits.Purchase(t.Context(), model.CreditPurchaseRequest{
		CustomerID:      customer.ID,
		CreditPackageID: pack.ID,
	})
	assert.ErrorIs(t, err, ErrPackageInactive)
}

func TestCreditService_Use(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	t.Run("balance stays nonnegative", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 2)

		got, err := env.credits.Use(t.Context(), credit.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusActive, got.Status)

		got, err = env.credits.Use(t.Context(), credit.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusUsed, got.Status)

		// A fully spent balance reports "no credits" and stays untouched.
		_, err = env.credits.Use(t.Context(), credit.ID, 1)
		assert.ErrorIs(t, err, ErrNoCreditsRemaining)

		after, err := env.credits.Get(t.Context(), credit.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, after.RemainingCredits)
	})

	t.Run("expired credit", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 3)
		past := time.Now().Add(-time.Hour)
		res := env.db.Write(t.Context()).
			Model(&repository.CustomerCreditEntity{}).
			Where("id = ?", credit.ID).
			Update("expiration_date", past)
		require.NoError(t, res.Error)

		_, err := env.credits.Use(t.Context(), credit.ID, 1)
		assert.ErrorIs(t, err, ErrCreditNotActive)
	})

	t.Run("exhausted beats expired in error order", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 1)
		_, err := env.credits.Use(t.Context(), credit.ID, 1)
		require.NoError(t, err)

		past := time.Now().Add(-time.Hour)
		res := env.db.Write(t.Context()).
			Model(&repository.CustomerCreditEntity{}).
			Where("id = ?", credit.ID).
			Update("expiration_date", past)
		require.NoError(t, res.Error)

		_, err = env.credits.Use(t.Context(), credit.ID, 1)
		assert.ErrorIs(t, err, ErrNoCreditsRemaining)
	})
}

func TestCreditService_UpdateCredit(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	t.Run("adjusting to zero marks the balance used", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 5)

		zero := 0
		got, err := env.credits.UpdateCredit(t.Context(), credit.ID, model.CreditUpdateRequest{
			RemainingCredits: &zero,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusUsed, got.Status)

		// Topping the balance back up reactivates it.
		three := 3
		got, err = env.credits.UpdateCredit(t.Context(), credit.ID, model.CreditUpdateRequest{
			RemainingCredits: &three,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusActive, got.Status)
	})

	t.Run("remaining cannot exceed total", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 5)

		six := 6
		_, err := env.credits.UpdateCredit(t.Context(), credit.ID, model.CreditUpdateRequest{
			RemainingCredits: &six,
		})
		assert.Error(t, err)
	})

	t.Run("expiration can be moved", func(t *testing.T) {
		credit := env.purchasedCredit(t, customer.ID, 5)

		until := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
		got, err := env.credits.UpdateCredit(t.Context(), credit.ID, model.CreditUpdateRequest{
			ExpirationDate: &until,
		})
		require.NoError(t, err)
		require.NotNil(t, got.ExpirationDate)
		assert.Equal(t, until.Unix(), got.ExpirationDate.Unix())
	})
}

func TestCreditService_DeleteCredit(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	credit := env.purchasedCredit(t, customer.ID, 5)

	require.NoError(t, env.credits.DeleteCredit(t.Context(), credit.ID))

	_, err := env.credits.Get(t.Context(), credit.ID)
	assert.ErrorIs(t, err, repository.ErrCreditNotFound)

	assert.ErrorIs(t, env.credits.DeleteCredit(t.Context(), credit.ID), repository.ErrCreditNotFound)
}
