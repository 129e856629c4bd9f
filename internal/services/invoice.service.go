package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/pfotenwerk/backoffice/pkg/prom"
)

type InvoiceService struct {
	db         *pg.DB
	invoices   *repository.InvoiceRepository
	customers  *repository.CustomerRepository
	dispatcher notify.Dispatcher
}

func NewInvoiceService(
	db *pg.DB,
	invoices *repository.InvoiceRepository,
	customers *repository.CustomerRepository,
	dispatcher notify.Dispatcher,
) *InvoiceService {
	return &InvoiceService{db: db, invoices: invoices, customers: customers, dispatcher: dispatcher}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create computes totals server side and draws the next invoice number.
// Number generation and the insert share a transaction, so two concurrent
// creations cannot draw the same number.
func (s *InvoiceService) Create(ctx context.Context, req model.InvoiceCreateRequest) (*model.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var subtotal, tax float64
	items := make([]*model.InvoiceItem, 0, len(req.Items))
	for _, in := range req.Items {
		rate := model.DefaultTaxRate
		if in.TaxRate != nil {
			rate = *in.TaxRate
		}
		line := in.Quantity * in.UnitPrice
		subtotal += line
		tax += line * rate / 100
		items = append(items, &model.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     rate,
			Amount:      line,
		})
	}
	// Rounding happens once at the totals level, not per item.
	subtotal = round2(subtotal)
	tax = round2(tax)

	// When the year has no invoices yet the locking read in
	// NextInvoiceNumber matches no row, so two concurrent issuers can both
	// draw the first number. The unique index rejects the loser; redrawing
	// in a fresh transaction gets the next free number.
	const maxAttempts = 3
	var invoice *model.Invoice
	for attempt := 1; ; attempt++ {
		err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
			number, err := s.invoices.NextInvoiceNumber(txCtx, req.IssueDate.Year())
			if err != nil {
				return err
			}
			invoice, err = s.invoices.Create(txCtx, &model.Invoice{
				CustomerID:    customer.ID,
				InvoiceNumber: number,
				Status:        model.InvoiceStatusDraft,
				IssueDate:     req.IssueDate,
				DueDate:       req.DueDate,
				Subtotal:      subtotal,
				TaxAmount:     tax,
				TotalAmount:   round2(subtotal + tax),
				Notes:         req.Notes,
				Items:         items,
			})
			return err
		})
		if err == nil {
			break
		}
		if !repository.IsDuplicateKey(err) || attempt == maxAttempts {
			return nil, err
		}
		logger.Info("invoice number collision, redrawing", "attempt", attempt)
	}

	prom.IncCounter(prom.SystemInvoices, prom.MetricInvoicesIssued)
	s.sendInvoiceMail(ctx, invoice, customer, notify.TemplateInvoiceCreated)
	return invoice, nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.invoices.Get(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error) {
	return s.invoices.List(ctx, f)
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.invoices.Delete(ctx, id)
}

// MarkSent moves a draft invoice into the sent state.
func (s *InvoiceService) MarkSent(ctx context.Context, id int64) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != model.InvoiceStatusDraft {
		return nil, ErrInvalidTransition
	}
	if err := s.invoices.UpdateStatus(ctx, id, model.InvoiceStatusSent, nil); err != nil {
		return nil, err
	}
	return s.invoices.Get(ctx, id)
}

// MarkPaid settles an invoice manually. Paying an already paid invoice is
// rejected; the check and the update share a transaction with the row
// locked.
func (s *InvoiceService) MarkPaid(ctx context.Context, id int64) (*model.Invoice, error) {
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoices.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if invoice.Status == model.InvoiceStatusPaid {
			return ErrInvoiceAlreadyPaid
		}
		now := time.Now()
		return s.invoices.UpdateStatus(txCtx, id, model.InvoiceStatusPaid, &now)
	})
	if err != nil {
		return nil, err
	}
	return s.invoices.Get(ctx, id)
}

// SendReminders flags overdue invoices and mails the customers. Returns the
// number of reminders enqueued.
func (s *InvoiceService) SendReminders(ctx context.Context) (int, error) {
	overdue, err := s.invoices.ListOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, invoice := range overdue {
		if err := s.invoices.UpdateStatus(ctx, invoice.ID, model.InvoiceStatusOverdue, nil); err != nil {
			logger.Warn("[invoice] overdue flag failed", "invoice_id", invoice.ID, "error", err)
			continue
		}
		customer, err := s.customers.Get(ctx, invoice.CustomerID)
		if err != nil {
			logger.Warn("[invoice] skipping reminder, customer lookup failed", "invoice_id", invoice.ID, "error", err)
			continue
		}
		s.sendInvoiceMail(ctx, invoice, customer, notify.TemplatePaymentReminder)
		sent++
	}
	return sent, nil
}

func (s *InvoiceService) sendInvoiceMail(ctx context.Context, invoice *model.Invoice, customer *model.Customer, template string) {
	job := notify.EmailJob{
		Template:  template,
		Recipient: customer.Email,
		Data: map[string]interface{}{
			"customer_name":  customer.FirstName,
			"invoice_number": invoice.InvoiceNumber,
			"total_amount":   fmt.Sprintf("%.2f", invoice.TotalAmount),
			"due_date":       invoice.DueDate.Format("02.01.2006"),
		},
	}
	if err := s.dispatcher.Enqueue(ctx, job); err != nil {
		logger.Error("[invoice] mail enqueue failed", "invoice_id", invoice.ID, "template", template, "error", err)
	}
}
