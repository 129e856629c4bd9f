package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type PaymentService interface {
	Create(ctx context.Context, req model.PaymentCreateRequest) (*model.Payment, error)
	Get(ctx context.Context, id int64) (*model.Payment, error)
	List(ctx context.Context, f model.PaymentFilter) ([]*model.Payment, int64, error)
	Update(ctx context.Context, id int64, req model.PaymentUpdateRequest) (*model.Payment, error)
	Delete(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64) (*model.Payment, error)
}

type PaymentHandler struct {
	svc PaymentService
}

func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: paymentService}
}

func RegisterPaymentRoutes(e *router.Group, h *PaymentHandler, mw guard) {
	e.GET("/payments", mw(h.List))
	e.GET("/payments/{id}", mw(h.Get))
	e.POST("/payments", mw(h.Create))
	e.PUT("/payments/{id}", mw(h.Update))
	e.DELETE("/payments/{id}", mw(h.Delete))
	e.POST("/payments/{id}/mark-completed", mw(h.MarkCompleted))
}

type createPaymentRequest struct {
	InvoiceID   int64   `json:"invoiceId"`
	PaymentDate string  `json:"paymentDate"` // YYYY-MM-DD, defaults to today
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

type updatePaymentRequest struct {
	PaymentDate *string  `json:"paymentDate"`
	Amount      *float64 `json:"amount"`
	Method      *string  `json:"method"`
	Notes       *string  `json:"notes"`
}

type paymentDTO struct {
	ID          int64     `json:"id"`
	InvoiceID   int64     `json:"invoiceId"`
	Reference   string    `json:"reference"`
	PaymentDate time.Time `json:"paymentDate"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
}

type paymentListResponse struct {
	Items []paymentDTO `json:"items"`
	Total int64        `json:"total"`
}

func toPaymentDTO(p *model.Payment) paymentDTO {
	return paymentDTO{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Reference:   p.Reference,
		PaymentDate: p.PaymentDate,
		Amount:      p.Amount,
		Method:      string(p.Method),
		Status:      string(p.Status),
		Notes:       p.Notes,
	}
}

func (h *PaymentHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePayments(actor) {
		forbidden(ctx)
		return
	}

	var f model.PaymentFilter
	f.InvoiceID = queryInt64(ctx, "invoiceId")
	if v := query(ctx, "status"); v != "" {
		st := model.PaymentStatus(v)
		f.Status = &st
	}
	f.From = queryTime(ctx, "from")
	f.To = queryTime(ctx, "to")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]paymentDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentDTO(p))
	}
	writeJSON(ctx, xhttp.StatusOK, paymentListResponse{Items: out, Total: total})
}

func (h *PaymentHandler) Get(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePayments(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toPaymentDTO(p))
}

func (h *PaymentHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePayments(actor) {
		forbidden(ctx)
		return
	}

	var req createPaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.PaymentCreateRequest{
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Method:    model.PaymentMethod(req.Method),
		Status:    model.PaymentStatus(req.Status),
		Notes:     req.Notes,
	}
	if req.PaymentDate != "" {
		t, err := parseTime(req.PaymentDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid paymentDate")
			return
		}
		p.PaymentDate = t
	}

	created, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toPaymentDTO(created))
}

func (h *PaymentHandler) Update(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePayments(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	var req updatePaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	upd := model.PaymentUpdateRequest{
		Amount: req.Amount,
		Notes:  req.Notes,
	}
	if req.Method != nil {
		m := model.PaymentMethod(*req.Method)
		upd.Method = &m
	}
	if req.PaymentDate != nil {
		t, err := parseTime(*req.PaymentDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid paymentDate")
			return
		}
		upd.PaymentDate = &t
	}

	updated, err := h.svc.Update(ctx, id, upd)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toPaymentDTO(updated))
}

func (h *PaymentHandler) Delete(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeletePayment(actor) {
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

func (h *PaymentHandler) MarkCompleted(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePayments(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.MarkCompleted(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toPaymentDTO(p))
}
