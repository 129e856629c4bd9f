package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRepository_NextInvoiceNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")

	number := func(year int) string {
		var got string
		err := db.WithinTransaction(t.Context(), func(ctx context.Context) error {
			n, err := repo.NextInvoiceNumber(ctx, year)
			got = n
			return err
		})
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, "RE-2026-0001", number(2026))

	_, err := repo.Create(t.Context(), &model.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "RE-2026-0001",
		Status:        model.InvoiceStatusDraft,
		IssueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "RE-2026-0002", number(2026))

	// Sequences restart per year.
	assert.Equal(t, "RE-2027-0001", number(2027))
}

func TestInvoiceRepository_CreateWithItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	customer := seedCustomer(t, db, "Jonas", "Timm", "jonas@example.org")

	created, err := repo.Create(t.Context(), &model.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "RE-2026-0001",
		Status:        model.InvoiceStatusDraft,
		IssueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		Subtotal:      220,
		TaxAmount:     41.80,
		TotalAmount:   261.80,
		Items: []*model.InvoiceItem{
			{Description: "Welpenschule April", Quantity: 1, UnitPrice: 120, TaxRate: 19, Amount: 120},
			{Description: "Einzelstunde", Quantity: 2, UnitPrice: 50, TaxRate: 19, Amount: 100},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.Get(t.Context(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "RE-2026-0001", got.InvoiceNumber)
	assert.Equal(t, 261.80, got.TotalAmount)
	require.NotNil(t, got.Customer)
	assert.Equal(t, customer.ID, got.Customer.ID)
}

func TestInvoiceRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")

	inv, err := repo.Create(t.Context(), &model.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "RE-2026-0001",
		Status:        model.InvoiceStatusSent,
		IssueDate:     time.Now(),
		DueDate:       time.Now().Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)

	paid := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateStatus(t.Context(), inv.ID, model.InvoiceStatusPaid, &paid))

	got, err := repo.Get(t.Context(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
	require.NotNil(t, got.PaidDate)
	assert.True(t, got.PaidDate.Equal(paid))

	assert.ErrorIs(t, repo.UpdateStatus(t.Context(), 9999, model.InvoiceStatusPaid, nil), ErrInvoiceNotFound)
}

func TestPaymentRepository_SumCompleted(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceRepository(db)
	payments := NewPaymentRepository(db)
	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")

	inv, err := invoices.Create(t.Context(), &model.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "RE-2026-0001",
		Status:        model.InvoiceStatusSent,
		IssueDate:     time.Now(),
		DueDate:       time.Now().Add(14 * 24 * time.Hour),
		TotalAmount:   150,
	})
	require.NoError(t, err)

	for i, p := range []*model.Payment{
		{InvoiceID: inv.ID, Amount: 100, Method: model.PaymentMethodBankTransfer, Status: model.PaymentStatusCompleted, PaymentDate: time.Now()},
		{InvoiceID: inv.ID, Amount: 30, Method: model.PaymentMethodCash, Status: model.PaymentStatusCompleted, PaymentDate: time.Now()},
		{InvoiceID: inv.ID, Amount: 20, Method: model.PaymentMethodPaypal, Status: model.PaymentStatusPending, PaymentDate: time.Now()},
	} {
		p.Reference = fmt.Sprintf("PAY-%04d", i+1)
		_, err := payments.Create(t.Context(), p)
		require.NoError(t, err)
	}

	// Pending payments do not count towards the paid total.
	sum, err := payments.SumCompleted(t.Context(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 130.0, sum)
}

func TestInvoiceRepository_DuplicateNumberDetection(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")

	invoice := func() *model.Invoice {
		return &model.Invoice{
			CustomerID:    customer.ID,
			InvoiceNumber: "RE-2026-0001",
			Status:        model.InvoiceStatusDraft,
			IssueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		}
	}

	_, err := repo.Create(t.Context(), invoice())
	require.NoError(t, err)

	// The unique index rejects a second draw of the same number; callers
	// recognize the violation and redraw instead of surfacing the raw error.
	_, err = repo.Create(t.Context(), invoice())
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(ErrInvoiceNotFound))
}
