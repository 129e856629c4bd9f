package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/pg"
)

type PaymentService struct {
	db       *pg.DB
	payments *repository.PaymentRepository
	invoices *repository.InvoiceRepository
}

func NewPaymentService(db *pg.DB, payments *repository.PaymentRepository, invoices *repository.InvoiceRepository) *PaymentService {
	return &PaymentService{db: db, payments: payments, invoices: invoices}
}

// Create records a payment. Completed payments immediately resettle the
// invoice, so paying the full amount in one go marks it paid.
func (s *PaymentService) Create(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.PaymentStatusPending
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var payment *model.Payment
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.invoices.Get(txCtx, req.InvoiceID); err != nil {
			return err
		}

		var err error
		payment, err = s.payments.Create(txCtx, &model.Payment{
			InvoiceID:   req.InvoiceID,
			Reference:   "PAY-" + uuid.NewString(),
			PaymentDate: paymentDate,
			Amount:      req.Amount,
			Method:      req.Method,
			Status:      status,
			Notes:       req.Notes,
		})
		if err != nil {
			return err
		}

		if status == model.PaymentStatusCompleted {
			return s.settleInvoice(txCtx, req.InvoiceID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*model.Payment, error) {
	return s.payments.Get(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error) {
	return s.payments.List(ctx, f)
}

// MarkCompleted completes a pending payment and resettles its invoice.
func (s *PaymentService) MarkCompleted(ctx context.Context, id int64) (*model.Payment, error) {
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		payment, err := s.payments.Get(txCtx, id)
		if err != nil {
			return err
		}
		if payment.Status != model.PaymentStatusCompleted {
			if err := s.payments.UpdateStatus(txCtx, id, model.PaymentStatusCompleted); err != nil {
				return err
			}
		}
		return s.settleInvoice(txCtx, payment.InvoiceID)
	})
	if err != nil {
		return nil, err
	}
	return s.payments.Get(ctx, id)
}

// Update edits a payment's date, amount, method or notes. Status changes go
// through MarkCompleted. A completed payment resettles its invoice after the
// edit since the covering sum may have changed either way.
func (s *PaymentService) Update(ctx context.Context, id int64, req model.PaymentUpdateRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var payment *model.Payment
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.payments.Get(txCtx, id)
		if err != nil {
			return err
		}
		if req.PaymentDate != nil {
			p.PaymentDate = *req.PaymentDate
		}
		if req.Amount != nil {
			p.Amount = *req.Amount
		}
		if req.Method != nil {
			p.Method = *req.Method
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}

		payment, err = s.payments.Update(txCtx, p)
		if err != nil {
			return err
		}
		if payment.Status == model.PaymentStatusCompleted {
			return s.settleInvoice(txCtx, payment.InvoiceID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment and resettles the invoice. A paid invoice whose
// completed payments no longer cover the total reopens as sent.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	return s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		payment, err := s.payments.Get(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.payments.Delete(txCtx, id); err != nil {
			return err
		}
		return s.settleInvoice(txCtx, payment.InvoiceID)
	})
}

// settleInvoice re-sums the completed payments against the invoice and moves
// its status both ways: to paid once they cover the total, and from paid back
// to sent when they no longer do. Runs inside the caller's transaction with
// the invoice row locked.
func (s *PaymentService) settleInvoice(ctx context.Context, invoiceID int64) error {
	invoice, err := s.invoices.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return err
	}

	sum, err := s.payments.SumCompleted(ctx, invoiceID)
	if err != nil {
		return err
	}
	if sum >= invoice.TotalAmount {
		if invoice.Status == model.InvoiceStatusPaid {
			return nil
		}
		now := time.Now()
		return s.invoices.UpdateStatus(ctx, invoiceID, model.InvoiceStatusPaid, &now)
	}
	if invoice.Status == model.InvoiceStatusPaid {
		return s.invoices.UpdateStatus(ctx, invoiceID, model.InvoiceStatusSent, nil)
	}
	return nil
}
