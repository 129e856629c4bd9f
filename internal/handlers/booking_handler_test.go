package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/internal/services"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, p model.BookingCreateRequest) (*model.Booking, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingService) Update(ctx context.Context, id int64, p model.BookingUpdateRequest) (*model.Booking, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) Confirm(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func customerActor(customerID int64) policy.Actor {
	return policy.Actor{UserID: 100, Role: model.RoleCustomer, CustomerID: &customerID}
}

var trainerActor = policy.Actor{UserID: 1, Role: model.RoleTrainer}

func TestBookingHandler_List(t *testing.T) {
	t.Run("customer is scoped to own bookings", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		// Filter asks for another customer's bookings; the handler must
		// override it with the actor's own customer id.
		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.BookingFilter) bool {
			return f.CustomerID != nil && *f.CustomerID == 7
		})).Return([]*model.Booking{{ID: 1, CustomerID: 7}}, int64(1), nil)

		ctx := setupTestContext("GET", "/bookings?customerId=999", nil)
		auth.WithActor(ctx, customerActor(7))
		handler.List(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response bookingListResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, int64(1), response.Total)
		require.Len(t, response.Items, 1)
		assert.Equal(t, int64(7), response.Items[0].CustomerID)

		svc.AssertExpectations(t)
	})

	t.Run("customer without linked record gets empty list", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		ctx := setupTestContext("GET", "/bookings", nil)
		auth.WithActor(ctx, policy.Actor{UserID: 100, Role: model.RoleCustomer})
		handler.List(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var response bookingListResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Empty(t, response.Items)
		svc.AssertNotCalled(t, "List")
	})

	t.Run("staff filter passes through", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.BookingFilter) bool {
			return f.CustomerID != nil && *f.CustomerID == 999 &&
				len(f.Statuses) == 2 && f.PerPage == 5 && f.Page == 2
		})).Return([]*model.Booking{}, int64(0), nil)

		ctx := setupTestContext("GET", "/bookings?customerId=999&status=pending,confirmed&perPage=5&page=2", nil)
		auth.WithActor(ctx, trainerActor)
		handler.List(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestBookingHandler_Create(t *testing.T) {
	t.Run("full session maps to 422 with spot count", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrSessionFull)

		body, _ := json.Marshal(createBookingRequest{TrainingSessionID: 1, CustomerID: 7, DogID: 3})
		ctx := setupTestContext("POST", "/bookings", body)
		auth.WithActor(ctx, trainerActor)
		handler.Create(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())

		var response map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.EqualValues(t, 0, response["availableSpots"])
		svc.AssertExpectations(t)
	})

	t.Run("customer books for own record only", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.BookingCreateRequest) bool {
			return p.CustomerID == 7
		})).Return(&model.Booking{ID: 5, CustomerID: 7, Status: model.BookingStatusPending}, nil)

		// Body claims customer 999; the actor is customer 7.
		body, _ := json.Marshal(createBookingRequest{TrainingSessionID: 1, CustomerID: 999, DogID: 3})
		ctx := setupTestContext("POST", "/bookings", body)
		auth.WithActor(ctx, customerActor(7))
		handler.Create(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response bookingDTO
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, int64(7), response.CustomerID)
		assert.Equal(t, "pending", response.Status)
		svc.AssertExpectations(t)
	})

	t.Run("missing session maps to 404", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrSessionNotFound)

		body, _ := json.Marshal(createBookingRequest{TrainingSessionID: 42, CustomerID: 7, DogID: 3})
		ctx := setupTestContext("POST", "/bookings", body)
		auth.WithActor(ctx, trainerActor)
		handler.Create(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON maps to 400", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		ctx := setupTestContext("POST", "/bookings", []byte("not json"))
		auth.WithActor(ctx, trainerActor)
		handler.Create(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	attended := true

	t.Run("customer cannot cancel attended booking", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Get", mock.Anything, int64(5)).
			Return(&model.Booking{ID: 5, CustomerID: 7, Status: model.BookingStatusConfirmed, Attended: &attended}, nil)

		ctx := setupTestContext("POST", "/bookings/5/cancel", nil)
		ctx.SetUserValue("id", "5")
		auth.WithActor(ctx, customerActor(7))
		handler.Cancel(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Cancel")
	})

	t.Run("staff cancels with reason", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		reason := "krank"
		svc.On("Get", mock.Anything, int64(5)).
			Return(&model.Booking{ID: 5, CustomerID: 7, Status: model.BookingStatusConfirmed, Attended: &attended}, nil)
		svc.On("Cancel", mock.Anything, int64(5), "krank").
			Return(&model.Booking{ID: 5, CustomerID: 7, Status: model.BookingStatusCancelled, CancellationReason: &reason}, nil)

		body, _ := json.Marshal(cancelBookingRequest{CancellationReason: "krank"})
		ctx := setupTestContext("POST", "/bookings/5/cancel", body)
		ctx.SetUserValue("id", "5")
		auth.WithActor(ctx, trainerActor)
		handler.Cancel(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response bookingDTO
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "cancelled", response.Status)
		svc.AssertExpectations(t)
	})

	t.Run("double cancel maps to 422", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Get", mock.Anything, int64(5)).
			Return(&model.Booking{ID: 5, CustomerID: 7, Status: model.BookingStatusCancelled}, nil)
		svc.On("Cancel", mock.Anything, int64(5), "").
			Return(nil, services.ErrInvalidTransition)

		ctx := setupTestContext("POST", "/bookings/5/cancel", nil)
		ctx.SetUserValue("id", "5")
		auth.WithActor(ctx, trainerActor)
		handler.Cancel(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
	})
}

func TestBookingHandler_Delete(t *testing.T) {
	t.Run("trainer may not delete", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		ctx := setupTestContext("DELETE", "/bookings/5", nil)
		ctx.SetUserValue("id", "5")
		auth.WithActor(ctx, trainerActor)
		handler.Delete(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Delete")
	})

	t.Run("admin deletes", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Delete", mock.Anything, int64(5)).Return(nil)

		ctx := setupTestContext("DELETE", "/bookings/5", nil)
		ctx.SetUserValue("id", "5")
		auth.WithActor(ctx, policy.Actor{UserID: 1, Role: model.RoleAdmin})
		handler.Delete(ctx)

		assert.Equal(t, 204, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}
