package services

import "errors"

// Domain rule violations. Handlers map these onto 422 responses; repository
// not-found errors pass through untouched and map onto 404.
var (
	ErrSessionFull        = errors.New("training session is fully booked")
	ErrSessionNotBookable = errors.New("training session is not open for booking")
	ErrOwnershipMismatch  = errors.New("dog does not belong to the given customer")
	ErrDuplicateBooking   = errors.New("dog is already booked into this session")
	ErrInvalidTransition  = errors.New("invalid status transition")

	ErrNoCreditsRemaining = errors.New("no credits remaining")
	ErrCreditNotActive    = errors.New("credit is not active or has expired")
	ErrPackageInactive    = errors.New("credit package is not available")

	ErrInvoiceAlreadyPaid = errors.New("invoice is already marked as paid")

	ErrTemplateInactive = errors.New("anamnesis template is not active")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is deactivated")
)
