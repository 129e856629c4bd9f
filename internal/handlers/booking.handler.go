package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type BookingService interface {
	Create(ctx context.Context, req model.BookingCreateRequest) (*model.Booking, error)
	Get(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id int64, req model.BookingUpdateRequest) (*model.Booking, error)
	Confirm(ctx context.Context, id int64) (*model.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(bookingService BookingService) *BookingHandler {
	return &BookingHandler{svc: bookingService}
}

func RegisterBookingRoutes(e *router.Group, h *BookingHandler, mw guard) {
	e.GET("/bookings", mw(h.List))
	e.GET("/bookings/{id}", mw(h.Get))
	e.POST("/bookings", mw(h.Create))
	e.PUT("/bookings/{id}", mw(h.Update))
	e.POST("/bookings/{id}/confirm", mw(h.Confirm))
	e.POST("/bookings/{id}/cancel", mw(h.Cancel))
	e.DELETE("/bookings/{id}", mw(h.Delete))
}

type createBookingRequest struct {
	TrainingSessionID int64  `json:"trainingSessionId"`
	CustomerID        int64  `json:"customerId"`
	DogID             int64  `json:"dogId"`
	Notes             string `json:"notes"`
}

type updateBookingRequest struct {
	Status   *string `json:"status"`
	Attended *bool   `json:"attended"`
	Notes    *string `json:"notes"`
}

type cancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

type bookingDTO struct {
	ID                 int64     `json:"id"`
	TrainingSessionID  int64     `json:"trainingSessionId"`
	CustomerID         int64     `json:"customerId"`
	DogID              int64     `json:"dogId"`
	Status             string    `json:"status"`
	BookingDate        time.Time `json:"bookingDate"`
	Attended           *bool     `json:"attended"`
	CancellationReason *string   `json:"cancellationReason"`
	Notes              string    `json:"notes"`
}

type bookingListResponse struct {
	Items []bookingDTO `json:"items"`
	Total int64        `json:"total"`
}

func toBookingDTO(b *model.Booking) bookingDTO {
	return bookingDTO{
		ID:                 b.ID,
		TrainingSessionID:  b.TrainingSessionID,
		CustomerID:         b.CustomerID,
		DogID:              b.DogID,
		Status:             string(b.Status),
		BookingDate:        b.BookingDate,
		Attended:           b.Attended,
		CancellationReason: b.CancellationReason,
		Notes:              b.Notes,
	}
}

// List scopes customer actors to their own bookings regardless of the
// customerId filter they pass.
func (h *BookingHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)

	var f model.BookingFilter
	f.TrainingSessionID = queryInt64(ctx, "trainingSessionId")
	f.CustomerID = queryInt64(ctx, "customerId")
	f.DogID = queryInt64(ctx, "dogId")
	if v := query(ctx, "status"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				f.Statuses = append(f.Statuses, model.BookingStatus(part))
			}
		}
	}
	f.From = queryTime(ctx, "from")
	f.To = queryTime(ctx, "to")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			writeJSON(ctx, xhttp.StatusOK, bookingListResponse{Items: []bookingDTO{}})
			return
		}
		f.CustomerID = actor.CustomerID
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]bookingDTO, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingDTO(b))
	}
	writeJSON(ctx, xhttp.StatusOK, bookingListResponse{Items: out, Total: total})
}

func (h *BookingHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	b, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewBooking(actor, b) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toBookingDTO(b))
}

func (h *BookingHandler) Create(ctx *xhttp.RequestCtx) {
	var req createBookingRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}

	actor, _ := auth.ActorFrom(ctx)
	// Customers book for themselves; the body's customerId is ignored.
	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			forbidden(ctx)
			return
		}
		req.CustomerID = *actor.CustomerID
	}
	if !policy.CanCreateBooking(actor, req.CustomerID) {
		forbidden(ctx)
		return
	}

	b, err := h.svc.Create(ctx, model.BookingCreateRequest{
		TrainingSessionID: req.TrainingSessionID,
		CustomerID:        req.CustomerID,
		DogID:             req.DogID,
		Notes:             req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toBookingDTO(b))
}

func (h *BookingHandler) Update(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanUpdateBooking(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	var req updateBookingRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.BookingUpdateRequest{
		Attended: req.Attended,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		st := model.BookingStatus(*req.Status)
		p.Status = &st
	}

	b, err := h.svc.Update(ctx, id, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toBookingDTO(b))
}

func (h *BookingHandler) Confirm(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanConfirmBooking(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	b, err := h.svc.Confirm(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toBookingDTO(b))
}

func (h *BookingHandler) Cancel(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	b, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCancelBooking(actor, b) {
		forbidden(ctx)
		return
	}

	var req cancelBookingRequest
	if len(ctx.PostBody()) > 0 {
		if err := readJSON(ctx, &req); err != nil {
			badRequest(ctx, err)
			return
		}
	}

	cancelled, err := h.svc.Cancel(ctx, id, req.CancellationReason)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toBookingDTO(cancelled))
}

func (h *BookingHandler) Delete(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeleteBooking(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
