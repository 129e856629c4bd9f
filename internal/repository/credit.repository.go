package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPackageNotFound     = errors.New("credit package not found")
	ErrCreditNotFound      = errors.New("customer credit not found")
	ErrInsufficientCredits = errors.New("insufficient remaining credits")
	ErrConcurrentUpdate    = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded  = errors.New("max retries exceeded")
)

type CreditRepository struct {
	*pg.DB
}

func NewCreditRepository(db *pg.DB) *CreditRepository {
	return &CreditRepository{db}
}

/* ------------------------------ packages ---------------------------------- */

func (r *CreditRepository) CreatePackage(ctx context.Context, p *model.CreditPackage) (*model.CreditPackage, error) {
	entity := toPackageEntity(p)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPackageModel(entity), nil
}

func (r *CreditRepository) GetPackage(ctx context.Context, id int64) (*model.CreditPackage, error) {
	var entity CreditPackageEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return toPackageModel(&entity), nil
}

func (r *CreditRepository) UpdatePackage(ctx context.Context, p *model.CreditPackage) (*model.CreditPackage, error) {
	res := r.Write(ctx).Model(&CreditPackageEntity{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":          p.Name,
		"description":   p.Description,
		"total_credits": p.TotalCredits,
		"price":         p.Price,
		"validity_days": p.ValidityDays,
		"active":        p.Active,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPackageNotFound
	}
	return r.GetPackage(ctx, p.ID)
}

func (r *CreditRepository) DeletePackage(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&CreditPackageEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *CreditRepository) ListPackages(ctx context.Context, activeOnly bool) ([]*model.CreditPackage, error) {
	q := r.Read(ctx).Model(&CreditPackageEntity{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var entities []*CreditPackageEntity
	if err := q.Order("price ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toPackageModels(entities), nil
}

/* --------------------------- customer credits ------------------------------ */

func (r *CreditRepository) CreateCredit(ctx context.Context, c *model.CustomerCredit) (*model.CustomerCredit, error) {
	entity := toCreditEntity(c)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCreditModel(entity), nil
}

func (r *CreditRepository) GetCredit(ctx context.Context, id int64) (*model.CustomerCredit, error) {
	var entity CustomerCreditEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditNotFound
		}
		return nil, err
	}
	return toCreditModel(&entity), nil
}

func (r *CreditRepository) ListCredits(ctx context.Context, f model.CreditFilter) ([]*model.CustomerCredit, int64, error) {
	q := r.Read(ctx).Model(&CustomerCreditEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*CustomerCreditEntity
	if err := q.Order(orderClause("purchase_date", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toCreditModels(entities), total, nil
}

func (r *CreditRepository) UpdateCredit(ctx context.Context, c *model.CustomerCredit) (*model.CustomerCredit, error) {
	res := r.Write(ctx).Model(&CustomerCreditEntity{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"remaining_credits": c.RemainingCredits,
		"expiration_date":   c.ExpirationDate,
		"status":            c.Status,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCreditNotFound
	}
	return r.GetCredit(ctx, c.ID)
}

func (r *CreditRepository) DeleteCredit(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&CustomerCreditEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCreditNotFound
	}
	return nil
}

// UseCredits performs an atomic decrement with automatic retry. The balance
// can never go below zero; reaching exactly zero flips the status to used in
// the same update.
func (r *CreditRepository) UseCredits(ctx context.Context, creditID int64, amount int) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.useCreditsAttempt(ctx, creditID, amount)
		if err == nil {
			return nil
		}

		// Don't retry on permanent errors
		if errors.Is(err, ErrCreditNotFound) || errors.Is(err, ErrInsufficientCredits) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt) // 2ms, 4ms, 8ms
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

// useCreditsAttempt holds the row lock across the read and the decrement.
// The status flip rides in the same UPDATE so it is decided from the row's
// current balance, never from the pre-read.
func (r *CreditRepository) useCreditsAttempt(ctx context.Context, creditID int64, amount int) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		var entity CustomerCreditEntity

		err := r.Write(txCtx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", creditID).
			First(&entity).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCreditNotFound
			}
			return err
		}

		if entity.RemainingCredits < amount {
			return ErrInsufficientCredits
		}

		result := r.Write(txCtx).
			Model(&CustomerCreditEntity{}).
			Where("id = ? AND remaining_credits >= ?", creditID, amount).
			Updates(map[string]interface{}{
				"remaining_credits": gorm.Expr("remaining_credits - ?", amount),
				"status": gorm.Expr(
					"CASE WHEN remaining_credits - ? = 0 THEN ? ELSE status END",
					amount, model.CreditStatusUsed,
				),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		return nil
	})
}

// MarkExpired flips active credits whose expiration date has passed.
// Called opportunistically; not a scheduled job.
func (r *CreditRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.Write(ctx).Model(&CustomerCreditEntity{}).
		Where("status = ? AND expiration_date IS NOT NULL AND expiration_date < ?", model.CreditStatusActive, now).
		Update("status", model.CreditStatusExpired)
	return res.RowsAffected, res.Error
}
