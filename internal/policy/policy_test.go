package policy

import (
	"testing"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCanCancelBooking(t *testing.T) {
	admin := Actor{UserID: 1, Role: model.RoleAdmin}
	trainer := Actor{UserID: 2, Role: model.RoleTrainer}
	owner := Actor{UserID: 3, Role: model.RoleCustomer, CustomerID: ptr(int64(10))}
	stranger := Actor{UserID: 4, Role: model.RoleCustomer, CustomerID: ptr(int64(11))}

	open := &model.Booking{CustomerID: 10, Status: model.BookingStatusPending}
	attended := &model.Booking{CustomerID: 10, Status: model.BookingStatusConfirmed, Attended: ptr(true)}
	cancelled := &model.Booking{CustomerID: 10, Status: model.BookingStatusCancelled}

	tests := []struct {
		name    string
		actor   Actor
		booking *model.Booking
		want    bool
	}{
		{"admin always", admin, attended, true},
		{"trainer always", trainer, cancelled, true},
		{"owner cancels open booking", owner, open, true},
		{"owner blocked after attendance", owner, attended, false},
		{"owner blocked on cancelled booking", owner, cancelled, false},
		{"stranger never", stranger, open, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCancelBooking(tt.actor, tt.booking))
		})
	}
}

func TestOwnershipScoping(t *testing.T) {
	owner := Actor{UserID: 3, Role: model.RoleCustomer, CustomerID: ptr(int64(10))}
	stranger := Actor{UserID: 4, Role: model.RoleCustomer, CustomerID: ptr(int64(11))}
	unlinked := Actor{UserID: 5, Role: model.RoleCustomer}

	dog := &model.Dog{CustomerID: 10}
	assert.True(t, CanViewDog(owner, dog))
	assert.False(t, CanViewDog(stranger, dog))
	assert.False(t, CanViewDog(unlinked, dog))

	invoice := &model.Invoice{CustomerID: 10}
	assert.True(t, CanViewInvoice(owner, invoice))
	assert.False(t, CanViewInvoice(stranger, invoice))

	credit := &model.CustomerCredit{CustomerID: 10}
	assert.True(t, CanUseCredit(owner, credit))
	assert.False(t, CanUseCredit(stranger, credit))
}

func TestTrainerAuthoredResources(t *testing.T) {
	author := Actor{UserID: 7, Role: model.RoleTrainer}
	other := Actor{UserID: 8, Role: model.RoleTrainer}
	admin := Actor{UserID: 1, Role: model.RoleAdmin}

	course := &model.Course{TrainerID: 7}
	assert.True(t, CanUpdateCourse(author, course))
	assert.False(t, CanUpdateCourse(other, course))
	assert.True(t, CanUpdateCourse(admin, course))

	tmpl := &model.AnamnesisTemplate{TrainerID: 7}
	assert.True(t, CanDeleteTemplate(author, tmpl))
	assert.False(t, CanDeleteTemplate(other, tmpl))
}

func TestSettingsAreAdminOnly(t *testing.T) {
	assert.True(t, CanManageSettings(Actor{Role: model.RoleAdmin}))
	assert.False(t, CanManageSettings(Actor{Role: model.RoleTrainer}))
	assert.False(t, CanManageSettings(Actor{Role: model.RoleCustomer}))

	assert.True(t, CanViewSettings(Actor{Role: model.RoleTrainer}))
	assert.False(t, CanViewSettings(Actor{Role: model.RoleCustomer}))
}
