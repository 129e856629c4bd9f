// Package notify implements the fire-and-forget email pipeline. Producers
// hand a job to the Dispatcher; the notifier process consumes the queue and
// delivers over SMTP. The producer's contract ends once the job is accepted
// for delivery.
package notify

import (
	"context"
)

const (
	TemplateBookingCreated   = "booking_created"
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateInvoiceCreated   = "invoice_created"
	TemplatePaymentReminder  = "payment_reminder"
)

// EmailJob is the queue payload. Data keys are template-specific.
type EmailJob struct {
	Template  string                 `json:"template"`
	Recipient string                 `json:"recipient"`
	Data      map[string]interface{} `json:"data"`
}

// Dispatcher accepts jobs for asynchronous delivery.
type Dispatcher interface {
	Enqueue(ctx context.Context, job EmailJob) error
}
