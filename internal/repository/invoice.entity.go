package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type InvoiceEntity struct {
	ID            int64                `gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID    int64                `gorm:"column:customer_id;not null;index"`
	Customer      *CustomerEntity      `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	InvoiceNumber string               `gorm:"column:invoice_number;uniqueIndex;not null"`
	Status        model.InvoiceStatus  `gorm:"column:status;not null;default:'draft'"`
	IssueDate     time.Time            `gorm:"column:issue_date;not null"`
	DueDate       time.Time            `gorm:"column:due_date;not null"`
	Subtotal      float64              `gorm:"column:subtotal;not null"`
	TaxAmount     float64              `gorm:"column:tax_amount;not null"`
	TotalAmount   float64              `gorm:"column:total_amount;not null"`
	PaidDate      *time.Time           `gorm:"column:paid_date"`
	Notes         string               `gorm:"column:notes"`
	Items         []*InvoiceItemEntity `gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (InvoiceEntity) TableName() string { return "invoices" }

type InvoiceItemEntity struct {
	ID          int64   `gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID   int64   `gorm:"column:invoice_id;not null;index"`
	Description string  `gorm:"column:description;not null"`
	Quantity    float64 `gorm:"column:quantity;not null"`
	UnitPrice   float64 `gorm:"column:unit_price;not null"`
	TaxRate     float64 `gorm:"column:tax_rate;not null"`
	Amount      float64 `gorm:"column:amount;not null"`
}

func (InvoiceItemEntity) TableName() string { return "invoice_items" }

func toInvoiceEntity(m *model.Invoice) *InvoiceEntity {
	if m == nil {
		return nil
	}
	entity := &InvoiceEntity{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		InvoiceNumber: m.InvoiceNumber,
		Status:        m.Status,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
		PaidDate:      m.PaidDate,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
	for _, it := range m.Items {
		entity.Items = append(entity.Items, toInvoiceItemEntity(it))
	}
	return entity
}

func toInvoiceItemEntity(m *model.InvoiceItem) *InvoiceItemEntity {
	if m == nil {
		return nil
	}
	return &InvoiceItemEntity{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		Amount:      m.Amount,
	}
}

func toInvoiceModel(e *InvoiceEntity) *model.Invoice {
	if e == nil {
		return nil
	}
	m := &model.Invoice{
		ID:            e.ID,
		CustomerID:    e.CustomerID,
		Customer:      toCustomerModel(e.Customer),
		InvoiceNumber: e.InvoiceNumber,
		Status:        e.Status,
		IssueDate:     e.IssueDate,
		DueDate:       e.DueDate,
		Subtotal:      e.Subtotal,
		TaxAmount:     e.TaxAmount,
		TotalAmount:   e.TotalAmount,
		PaidDate:      e.PaidDate,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
	for _, it := range e.Items {
		m.Items = append(m.Items, toInvoiceItemModel(it))
	}
	return m
}

func toInvoiceItemModel(e *InvoiceItemEntity) *model.InvoiceItem {
	if e == nil {
		return nil
	}
	return &model.InvoiceItem{
		ID:          e.ID,
		InvoiceID:   e.InvoiceID,
		Description: e.Description,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		TaxRate:     e.TaxRate,
		Amount:      e.Amount,
	}
}

func toInvoiceModels(entities []*InvoiceEntity) []*model.Invoice {
	if entities == nil {
		return nil
	}
	models := make([]*model.Invoice, len(entities))
	for i, e := range entities {
		models[i] = toInvoiceModel(e)
	}
	return models
}
