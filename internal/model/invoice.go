package model

import (
	"strings"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// DefaultTaxRate is applied to invoice items that carry no explicit rate.
const DefaultTaxRate = 19.0

type Invoice struct {
	ID            int64          `json:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID    int64          `json:"customer_id"    gorm:"column:customer_id;not null;index"`
	Customer      *Customer      `json:"-"              gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	InvoiceNumber string         `json:"invoice_number" gorm:"column:invoice_number;uniqueIndex;not null"`
	Status        InvoiceStatus  `json:"status"         gorm:"column:status;not null;default:'draft'"`
	IssueDate     time.Time      `json:"issue_date"     gorm:"column:issue_date;not null"`
	DueDate       time.Time      `json:"due_date"       gorm:"column:due_date;not null"`
	Subtotal      float64        `json:"subtotal"       gorm:"column:subtotal;not null"`
	TaxAmount     float64        `json:"tax_amount"     gorm:"column:tax_amount;not null"`
	TotalAmount   float64        `json:"total_amount"   gorm:"column:total_amount;not null"`
	PaidDate      *time.Time     `json:"paid_date"      gorm:"column:paid_date"`
	Notes         string         `json:"notes"          gorm:"column:notes"`
	Items         []*InvoiceItem `json:"items"          gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time      `json:"created_at"     gorm:"column:created_at;autoCreateTime"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID          int64   `json:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID   int64   `json:"invoice_id"  gorm:"column:invoice_id;not null;index"`
	Description string  `json:"description" gorm:"column:description;not null"`
	Quantity    float64 `json:"quantity"    gorm:"column:quantity;not null"`
	UnitPrice   float64 `json:"unit_price"  gorm:"column:unit_price;not null"`
	TaxRate     float64 `json:"tax_rate"    gorm:"column:tax_rate;not null"`
	Amount      float64 `json:"amount"      gorm:"column:amount;not null"` // quantity * unit_price
}

func (InvoiceItem) TableName() string { return "invoice_items" }

type InvoiceItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxRate     *float64 // nil means DefaultTaxRate
}

type InvoiceCreateRequest struct {
	CustomerID int64
	IssueDate  time.Time
	DueDate    time.Time
	Items      []InvoiceItemInput
	Notes      string
}

func (p InvoiceCreateRequest) Validate() error {
	if p.CustomerID == 0 {
		return invalid("customer_id is required")
	}
	if p.IssueDate.IsZero() {
		return invalid("issue_date is required")
	}
	if p.DueDate.IsZero() {
		return invalid("due_date is required")
	}
	if len(p.Items) == 0 {
		return invalid("at least one item is required")
	}
	for _, it := range p.Items {
		if strings.TrimSpace(it.Description) == "" {
			return invalid("item description is required")
		}
		if it.Quantity <= 0 {
			return invalid("item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return invalid("item unit_price must not be negative")
		}
		if it.TaxRate != nil && *it.TaxRate < 0 {
			return invalid("item tax_rate must not be negative")
		}
	}
	return nil
}

type InvoiceFilter struct {
	CustomerID *int64
	Status     *InvoiceStatus
	From       *time.Time
	To         *time.Time
	PerPage    int
	Page       int
	Desc       bool
}
