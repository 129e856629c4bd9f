// Package policy holds the authorization predicates. Every check is a pure
// function of the actor and the resource ownership; no policy touches storage.
package policy

import (
	"github.com/pfotenwerk/backoffice/internal/model"
)

// Actor is the authenticated caller. CustomerID is set only for customer
// role actors that are linked to a customer record.
type Actor struct {
	UserID     int64
	Role       model.Role
	CustomerID *int64
}

func (a Actor) IsAdmin() bool   { return a.Role == model.RoleAdmin }
func (a Actor) IsTrainer() bool { return a.Role == model.RoleTrainer }
func (a Actor) IsStaff() bool   { return a.Role == model.RoleAdmin || a.Role == model.RoleTrainer }

// ownsCustomer reports whether the actor's customer record is customerID.
func (a Actor) ownsCustomer(customerID int64) bool {
	return a.CustomerID != nil && *a.CustomerID == customerID
}

/* ------------------------------ customers --------------------------------- */

func CanListCustomers(a Actor) bool { return a.IsStaff() }

func CanViewCustomer(a Actor, c *model.Customer) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(c.ID)
}

func CanCreateCustomer(a Actor) bool { return a.IsStaff() }

func CanUpdateCustomer(a Actor, c *model.Customer) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(c.ID)
}

func CanDeleteCustomer(a Actor) bool { return a.IsAdmin() }

/* -------------------------------- dogs ------------------------------------ */

func CanViewDog(a Actor, d *model.Dog) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(d.CustomerID)
}

func CanCreateDog(a Actor, customerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(customerID)
}

func CanUpdateDog(a Actor, d *model.Dog) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(d.CustomerID)
}

func CanDeleteDog(a Actor, d *model.Dog) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(d.CustomerID)
}

/* --------------------------- courses, sessions ---------------------------- */

func CanViewCourse(Actor) bool { return true }

func CanCreateCourse(a Actor) bool { return a.IsStaff() }

// Trainers manage only courses they authored; admins manage all.
func CanUpdateCourse(a Actor, c *model.Course) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsTrainer() && c.TrainerID == a.UserID
}

func CanDeleteCourse(a Actor, c *model.Course) bool {
	return CanUpdateCourse(a, c)
}

func CanViewSession(Actor) bool { return true }

func CanCreateSession(a Actor) bool { return a.IsStaff() }

func CanUpdateSession(a Actor, s *model.TrainingSession) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsTrainer() && s.TrainerID == a.UserID
}

func CanDeleteSession(a Actor, s *model.TrainingSession) bool {
	return CanUpdateSession(a, s)
}

/* ------------------------------ bookings ---------------------------------- */

func CanViewBooking(a Actor, b *model.Booking) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(b.CustomerID)
}

func CanCreateBooking(a Actor, customerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(customerID)
}

// Status, attendance and notes updates are staff actions.
func CanUpdateBooking(a Actor) bool { return a.IsStaff() }

func CanConfirmBooking(a Actor) bool { return a.IsStaff() }

// Customers may cancel their own booking only while it is still open and
// not marked attended. Staff may always cancel.
func CanCancelBooking(a Actor, b *model.Booking) bool {
	if a.IsStaff() {
		return true
	}
	if !a.ownsCustomer(b.CustomerID) {
		return false
	}
	if b.Status == model.BookingStatusCancelled {
		return false
	}
	if b.Attended != nil && *b.Attended {
		return false
	}
	return true
}

func CanDeleteBooking(a Actor) bool { return a.IsAdmin() }

/* ------------------------------- credits ---------------------------------- */

func CanViewPackages(Actor) bool { return true }

func CanManagePackages(a Actor) bool { return a.IsAdmin() }

func CanViewCredit(a Actor, c *model.CustomerCredit) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(c.CustomerID)
}

func CanPurchaseCredit(a Actor, customerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(customerID)
}

func CanUseCredit(a Actor, c *model.CustomerCredit) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(c.CustomerID)
}

// Balance corrections and removals are admin-only; customers and trainers
// never touch a purchased balance directly.
func CanManageCredits(a Actor) bool { return a.IsAdmin() }

/* --------------------------- invoices, payments --------------------------- */

func CanViewInvoice(a Actor, inv *model.Invoice) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(inv.CustomerID)
}

func CanManageInvoices(a Actor) bool { return a.IsStaff() }

func CanManagePayments(a Actor) bool { return a.IsStaff() }

func CanDeletePayment(a Actor) bool { return a.IsAdmin() }

func CanViewPayment(a Actor, invoiceCustomerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(invoiceCustomerID)
}

/* ----------------------------- vaccinations ------------------------------- */

func CanViewVaccination(a Actor, dogCustomerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(dogCustomerID)
}

func CanManageVaccination(a Actor, dogCustomerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(dogCustomerID)
}

/* ------------------------------ anamnesis --------------------------------- */

func CanViewTemplate(Actor) bool { return true }

func CanCreateTemplate(a Actor) bool { return a.IsStaff() }

// Trainers edit only their own templates.
func CanUpdateTemplate(a Actor, t *model.AnamnesisTemplate) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsTrainer() && t.TrainerID == a.UserID
}

func CanDeleteTemplate(a Actor, t *model.AnamnesisTemplate) bool {
	return CanUpdateTemplate(a, t)
}

func CanViewResponse(a Actor, dogCustomerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(dogCustomerID)
}

func CanSubmitResponse(a Actor, dogCustomerID int64) bool {
	if a.IsStaff() {
		return true
	}
	return a.ownsCustomer(dogCustomerID)
}

// Amending or withdrawing a filed questionnaire follows the same ownership
// rule as filing it.
func CanEditResponse(a Actor, dogCustomerID int64) bool {
	return CanSubmitResponse(a, dogCustomerID)
}

/* ------------------------------- settings --------------------------------- */

func CanViewSettings(a Actor) bool { return a.IsStaff() }

func CanManageSettings(a Actor) bool { return a.IsAdmin() }
