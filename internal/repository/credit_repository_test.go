package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCredit(t *testing.T, db *pg.DB, customerID int64, total int) *model.CustomerCredit {
	t.Helper()
	repo := NewCreditRepository(db)

	pack, err := repo.CreatePackage(t.Context(), &model.CreditPackage{
		Name:         "10er Karte",
		TotalCredits: total,
		Price:        200,
		Active:       true,
	})
	require.NoError(t, err)

	credit, err := repo.CreateCredit(t.Context(), &model.CustomerCredit{
		CustomerID:       customerID,
		CreditPackageID:  pack.ID,
		TotalCredits:     total,
		RemainingCredits: total,
		PurchaseDate:     time.Now(),
		Status:           model.CreditStatusActive,
	})
	require.NoError(t, err)
	return credit
}

func TestCreditRepository_UseCredits(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepository(db)
	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")

	t.Run("decrements remaining", func(t *testing.T) {
		credit := seedCredit(t, db, customer.ID, 10)

		require.NoError(t, repo.UseCredits(t.Context(), credit.ID, 3))

		got, err := repo.GetCredit(t.Context(), credit.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusActive, got.Status)
	})

	t.Run("flips to used at zero", func(t *testing.T) {
		credit := seedCredit(t, db, customer.ID, 2)

		require.NoError(t, repo.UseCredits(t.Context(), credit.ID, 2))

		got, err := repo.GetCredit(t.Context(), credit.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusUsed, got.Status)
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		credit := seedCredit(t, db, customer.ID, 1)

		err := repo.UseCredits(t.Context(), credit.ID, 2)
		assert.ErrorIs(t, err, ErrInsufficientCredits)

		// Balance untouched after the rejection.
		got, getErr := repo.GetCredit(t.Context(), credit.ID)
		require.NoError(t, getErr)
		assert.Equal(t, 1, got.RemainingCredits)
	})

	t.Run("unknown credit", func(t *testing.T) {
		err := repo.UseCredits(t.Context(), 9999, 1)
		assert.ErrorIs(t, err, ErrCreditNotFound)
	})

	// A zero balance must always carry status used, also when two writers
	// drain it together and each one's pre-read saw a positive balance.
	t.Run("concurrent drain flips to used", func(t *testing.T) {
		credit := seedCredit(t, db, customer.ID, 2)

		start := make(chan struct{})
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				errs[i] = repo.UseCredits(t.Context(), credit.ID, 1)
			}(i)
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		got, err := repo.GetCredit(t.Context(), credit.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.RemainingCredits)
		assert.Equal(t, model.CreditStatusUsed, got.Status)
	})
}

func TestCreditRepository_MarkExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepository(db)
	customer := seedCustomer(t, db, "Jonas", "Timm", "jonas@example.org")

	expired := seedCredit(t, db, customer.ID, 5)
	past := time.Now().Add(-24 * time.Hour)
	res := db.Write(t.Context()).
		Model(&CustomerCreditEntity{}).
		Where("id = ?", expired.ID).
		Update("expiration_date", past)
	require.NoError(t, res.Error)

	fresh := seedCredit(t, db, customer.ID, 5)

	n, err := repo.MarkExpired(t.Context(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetCredit(t.Context(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CreditStatusExpired, got.Status)

	got, err = repo.GetCredit(t.Context(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CreditStatusActive, got.Status)
}

func TestCreditRepository_ListPackages(t *testing.T) {
	db := newTestDB(t)
	repo := NewCreditRepository(db)

	_, err := repo.CreatePackage(t.Context(), &model.CreditPackage{Name: "5er Karte", TotalCredits: 5, Price: 110, Active: true})
	require.NoError(t, err)
	_, err = repo.CreatePackage(t.Context(), &model.CreditPackage{Name: "Altpaket", TotalCredits: 10, Price: 180, Active: false})
	require.NoError(t, err)

	all, err := repo.ListPackages(t.Context(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.ListPackages(t.Context(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "5er Karte", active[0].Name)
}
