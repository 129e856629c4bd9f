package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

type InvoiceRepository struct {
	*pg.DB
}

func NewInvoiceRepository(db *pg.DB) *InvoiceRepository {
	return &InvoiceRepository{db}
}

// NextInvoiceNumber returns the next sequential number for the given year,
// formatted RE-{year}-{seq}. Callers must hold a transaction; the locking
// read keeps two concurrent issuers from drawing the same number.
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("RE-%d-", year)

	var entities []*InvoiceEntity
	err := r.Write(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Find(&entities).
		Error
	if err != nil {
		return "", err
	}

	seq := 1
	if len(entities) > 0 {
		suffix := strings.TrimPrefix(entities[0].InvoiceNumber, prefix)
		if n, convErr := strconv.Atoi(suffix); convErr == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	entity := toInvoiceEntity(inv)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toInvoiceModel(entity), nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	var entity InvoiceEntity
	err := r.Read(ctx).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return toInvoiceModel(&entity), nil
}

// GetForUpdate locks the invoice row for the duration of the surrounding
// transaction. Items are loaded with a second read; only the invoice row
// itself needs the lock.
func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id int64) (*model.Invoice, error) {
	var entity InvoiceEntity
	err := r.Write(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if err := r.Write(ctx).Where("invoice_id = ?", id).Find(&entity.Items).Error; err != nil {
		return nil, err
	}
	return toInvoiceModel(&entity), nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, paidDate *time.Time) error {
	// A nil paidDate clears the column so a reopened invoice loses its
	// paid date.
	updates := map[string]interface{}{"status": status, "paid_date": paidDate}
	res := r.Write(ctx).Model(&InvoiceEntity{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := r.Write(txCtx).Where("invoice_id = ?", id).Delete(&InvoiceItemEntity{}).Error; err != nil {
			return err
		}
		res := r.Write(txCtx).Where("id = ?", id).Delete(&InvoiceEntity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvoiceNotFound
		}
		return nil
	})
}

func (r *InvoiceRepository) List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error) {
	q := r.Read(ctx).Model(&InvoiceEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("issue_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("issue_date <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*InvoiceEntity
	err := q.Preload("Items").
		Order(orderClause("issue_date", f.Desc)).
		Limit(limit).Offset(offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toInvoiceModels(entities), total, nil
}

// ListOverdue returns sent invoices whose due date has passed.
func (r *InvoiceRepository) ListOverdue(ctx context.Context, now time.Time) ([]*model.Invoice, error) {
	var entities []*InvoiceEntity
	err := r.Read(ctx).
		Where("status = ? AND due_date < ?", model.InvoiceStatusSent, now).
		Order("due_date ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toInvoiceModels(entities), nil
}
