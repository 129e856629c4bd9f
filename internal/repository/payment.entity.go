package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type PaymentEntity struct {
	ID          int64               `gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID   int64               `gorm:"column:invoice_id;not null;index"`
	Invoice     *InvoiceEntity      `gorm:"foreignKey:InvoiceID;references:ID"`
	Reference   string              `gorm:"column:reference;uniqueIndex;not null"`
	PaymentDate time.Time           `gorm:"column:payment_date;not null"`
	Amount      float64             `gorm:"column:amount;not null"`
	Method      model.PaymentMethod `gorm:"column:method;not null"`
	Status      model.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	Notes       string              `gorm:"column:notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (PaymentEntity) TableName() string { return "payments" }

func toPaymentEntity(m *model.Payment) *PaymentEntity {
	if m == nil {
		return nil
	}
	return &PaymentEntity{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Reference:   m.Reference,
		PaymentDate: m.PaymentDate,
		Amount:      m.Amount,
		Method:      m.Method,
		Status:      m.Status,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

func toPaymentModel(e *PaymentEntity) *model.Payment {
	if e == nil {
		return nil
	}
	return &model.Payment{
		ID:          e.ID,
		InvoiceID:   e.InvoiceID,
		Invoice:     toInvoiceModel(e.Invoice),
		Reference:   e.Reference,
		PaymentDate: e.PaymentDate,
		Amount:      e.Amount,
		Method:      e.Method,
		Status:      e.Status,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}

func toPaymentModels(entities []*PaymentEntity) []*model.Payment {
	if entities == nil {
		return nil
	}
	models := make([]*model.Payment, len(entities))
	for i, e := range entities {
		models[i] = toPaymentModel(e)
	}
	return models
}
