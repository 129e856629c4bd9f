package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository struct {
	*pg.DB
}

func NewPaymentRepository(db *pg.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	entity := toPaymentEntity(p)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPaymentModel(entity), nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var entity PaymentEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toPaymentModel(&entity), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	res := r.Write(ctx).Model(&PaymentEntity{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"payment_date": p.PaymentDate,
		"amount":       p.Amount,
		"method":       p.Method,
		"notes":        p.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&PaymentEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	res := r.Write(ctx).Model(&PaymentEntity{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// SumCompleted totals the completed payments against an invoice. Uses the
// write handle so it sees rows created earlier in the same transaction.
func (r *PaymentRepository) SumCompleted(ctx context.Context, invoiceID int64) (float64, error) {
	var sum float64
	err := r.Write(ctx).Model(&PaymentEntity{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ? AND status = ?", invoiceID, model.PaymentStatusCompleted).
		Scan(&sum).
		Error
	return sum, err
}

func (r *PaymentRepository) List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error) {
	q := r.Read(ctx).Model(&PaymentEntity{})

	if f.InvoiceID != nil {
		q = q.Where("invoice_id = ?", *f.InvoiceID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("payment_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payment_date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*PaymentEntity
	if err := q.Order(orderClause("payment_date", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toPaymentModels(entities), total, nil
}
