package services

import (
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestInvoiceService_Totals(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	invoice, err := env.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customer.ID,
		IssueDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Items: []model.InvoiceItemInput{
			{Description: "Gruppenstunde", Quantity: 2, UnitPrice: 50, TaxRate: ptr(19.0)},
			{Description: "Intensivkurs", Quantity: 1, UnitPrice: 200, TaxRate: ptr(19.0)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 300.00, invoice.Subtotal)
	assert.Equal(t, 57.00, invoice.TaxAmount)
	assert.Equal(t, 357.00, invoice.TotalAmount)
	assert.Equal(t, "RE-2026-0001", invoice.InvoiceNumber)
	assert.Equal(t, model.InvoiceStatusDraft, invoice.Status)

	// Missing tax rate falls back to the default 19 percent.
	second, err := env.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customer.ID,
		IssueDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		Items: []model.InvoiceItemInput{
			{Description: "Einzelstunde", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 19.00, second.TaxAmount)
	assert.Equal(t, "RE-2026-0002", second.InvoiceNumber)

	jobs := env.dispatcher.sent()
	require.Len(t, jobs, 2)
	assert.Equal(t, notify.TemplateInvoiceCreated, jobs[0].Template)
	assert.Equal(t, "357.00", jobs[0].Data["total_amount"])
}

func TestInvoiceService_MarkPaidIdempotency(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	invoice, err := env.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customer.ID,
		IssueDate:  time.Now(),
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
		Items:      []model.InvoiceItemInput{{Description: "Kurs", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	paid, err := env.invoices.MarkPaid(t.Context(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidDate)

	_, err = env.invoices.MarkPaid(t.Context(), invoice.ID)
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
}

func TestInvoiceService_SentTransition(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	invoice, err := env.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customer.ID,
		IssueDate:  time.Now(),
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
		Items:      []model.InvoiceItemInput{{Description: "Kurs", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	sent, err := env.invoices.MarkSent(t.Context(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusSent, sent.Status)

	_, err = env.invoices.MarkSent(t.Context(), invoice.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPaymentService_AutoPaid(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")

	invoice, err := env.invoices.Create(t.Context(), model.InvoiceCreateRequest{
		CustomerID: customer.ID,
		IssueDate:  time.Now(),
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
		// 168.07 net + 31.93 tax ≈ 200 total
		Items: []model.InvoiceItemInput{{Description: "Kurs", Quantity: 1, UnitPrice: 168.067227}},
	})
	require.NoError(t, err)
	require.Equal(t, 200.00, invoice.TotalAmount)

	first, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
		InvoiceID: invoice.ID,
		Amount:    100,
		Method:    model.PaymentMethodBankTransfer,
		Status:    model.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Reference)

	// Half paid, the invoice stays open.
	mid, err := env.invoices.Get(t.Context(), invoice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, model.InvoiceStatusPaid, mid.Status)
	assert.Nil(t, mid.PaidDate)

	second, err := env.payments.Create(t.Context(), model.PaymentCreateRequest{
		InvoiceID: invoice.ID,
		Amount:    100,
		Method:    model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, second.Status)

	// Completing the second payment covers the total and flips the invoice.
	_, err = env.payments.MarkCompleted(t.Context(), second.ID)
	require.NoError(t, err)

	final, err := env.invoices.Get(t.Context(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, final.Status)
	assert.NotNil(t, final.PaidDate)
}
