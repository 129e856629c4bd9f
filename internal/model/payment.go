package model

import (
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodStripe       PaymentMethod = "stripe"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodPaypal,
		PaymentMethodStripe, PaymentMethodCreditCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID          int64         `json:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID   int64         `json:"invoice_id"   gorm:"column:invoice_id;not null;index"`
	Invoice     *Invoice      `json:"-"            gorm:"foreignKey:InvoiceID;references:ID"`
	Reference   string        `json:"reference"    gorm:"column:reference;uniqueIndex;not null"`
	PaymentDate time.Time     `json:"payment_date" gorm:"column:payment_date;not null"`
	Amount      float64       `json:"amount"       gorm:"column:amount;not null"`
	Method      PaymentMethod `json:"method"       gorm:"column:method;not null"`
	Status      PaymentStatus `json:"status"       gorm:"column:status;not null;default:'pending'"`
	Notes       string        `json:"notes"        gorm:"column:notes"`
	CreatedAt   time.Time     `json:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string { return "payments" }

type PaymentCreateRequest struct {
	InvoiceID   int64
	PaymentDate time.Time
	Amount      float64
	Method      PaymentMethod
	Status      PaymentStatus // defaults to pending when empty
	Notes       string
}

func (p PaymentCreateRequest) Validate() error {
	if p.InvoiceID == 0 {
		return invalid("invoice_id is required")
	}
	if p.Amount <= 0 {
		return invalid("amount must be positive")
	}
	if !p.Method.Valid() {
		return invalid("invalid payment method")
	}
	return nil
}

type PaymentUpdateRequest struct {
	PaymentDate *time.Time
	Amount      *float64
	Method      *PaymentMethod
	Notes       *string
}

func (p PaymentUpdateRequest) Validate() error {
	if p.Amount != nil && *p.Amount <= 0 {
		return invalid("amount must be positive")
	}
	if p.Method != nil && !p.Method.Valid() {
		return invalid("invalid payment method")
	}
	return nil
}

type PaymentFilter struct {
	InvoiceID *int64
	Status    *PaymentStatus
	From      *time.Time
	To        *time.Time
	PerPage   int
	Page      int
	Desc      bool
}
