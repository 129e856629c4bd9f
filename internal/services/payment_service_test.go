package services

import (
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) invoiceOver(t *testing.T, customerID int64, amount float64) *model.Invoice {
	t.Helper()
	zero := 0.0
	inv, err := e.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customerID,
		IssueDate:  time.Now(),
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
		Items:      []model.InvoiceItemInput{{Description: "Kurs", Quantity: 1, UnitPrice: amount, TaxRate: &zero}},
	})
	require.NoError(t, err)
	require.Equal(t, amount, inv.TotalAmount)
	return inv
}

func TestPaymentService_Update(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	t.Run("raising a completed amount settles the invoice", func(t *testing.T) {
		invoice := env.invoiceOver(t, customer.ID, 200)

		payment, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
			InvoiceID: invoice.ID,
			Amount:    150,
			Method:    model.PaymentMethodBankTransfer,
			Status:    model.PaymentStatusCompleted,
		})
		require.NoError(t, err)

		mid, err := env.invoices.Get(t.Context(), invoice.ID)
		require.NoError(t, err)
		assert.NotEqual(t, model.InvoiceStatusPaid, mid.Status)

		two := 200.0
		updated, err := env.payments.Update(t.Context(), payment.ID, model.PaymentUpdateRequest{
			Amount: &two,
		})
		require.NoError(t, err)
		assert.Equal(t, 200.0, updated.Amount)

		final, err := env.invoices.Get(t.Context(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusPaid, final.Status)
	})

	t.Run("lowering a completed amount reopens a paid invoice", func(t *testing.T) {
		invoice := env.invoiceOver(t, customer.ID, 200)

		payment, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
			InvoiceID: invoice.ID,
			Amount:    200,
			Method:    model.PaymentMethodCash,
			Status:    model.PaymentStatusCompleted,
		})
		require.NoError(t, err)

		paid, err := env.invoices.Get(t.Context(), invoice.ID)
		require.NoError(t, err)
		require.Equal(t, model.InvoiceStatusPaid, paid.Status)

		half := 100.0
		_, err = env.payments.Update(t.Context(), payment.ID, model.PaymentUpdateRequest{
			Amount: &half,
		})
		require.NoError(t, err)

		reopened, err := env.invoices.Get(t.Context(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusSent, reopened.Status)
		assert.Nil(t, reopened.PaidDate)
	})

	t.Run("rejects invalid method and nonpositive amount", func(t *testing.T) {
		invoice := env.invoiceOver(t, customer.ID, 50)
		payment, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
			InvoiceID: invoice.ID,
			Amount:    50,
			Method:    model.PaymentMethodCash,
		})
		require.NoError(t, err)

		bad := model.PaymentMethod("iou")
		_, err = env.payments.Update(t.Context(), payment.ID, model.PaymentUpdateRequest{Method: &bad})
		assert.Error(t, err)

		neg := -5.0
		_, err = env.payments.Update(t.Context(), payment.ID, model.PaymentUpdateRequest{Amount: &neg})
		assert.Error(t, err)
	})
}

func TestPaymentService_Delete(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	invoice := env.invoiceOver(t, customer.ID, 120)

	payment, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
		InvoiceID: invoice.ID,
		Amount:    120,
		Method:    model.PaymentMethodPaypal,
		Status:    model.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	paid, err := env.invoices.Get(t.Context(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, model.InvoiceStatusPaid, paid.Status)

	require.NoError(t, env.payments.Delete(t.Context(), payment.ID))

	_, err = env.payments.Get(t.Context(), payment.ID)
	assert.ErrorIs(t, err, repository.ErrPaymentNotFound)

	// Removing the covering payment reopens the invoice.
	reopened, err := env.invoices.Get(t.Context(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, reopened.Status)
	assert.Nil(t, reopened.PaidDate)
}
