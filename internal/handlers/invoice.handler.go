package handlers

import (
	"context"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/pdfgen"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type InvoiceService interface {
	Create(ctx context.Context, req model.InvoiceCreateRequest) (*model.Invoice, error)
	Get(ctx context.Context, id int64) (*model.Invoice, error)
	List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error)
	Delete(ctx context.Context, id int64) error
	MarkSent(ctx context.Context, id int64) (*model.Invoice, error)
	MarkPaid(ctx context.Context, id int64) (*model.Invoice, error)
	SendReminders(ctx context.Context) (int, error)
}

type InvoiceHandler struct {
	svc InvoiceService
}

func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: invoiceService}
}

func RegisterInvoiceRoutes(e *router.Group, h *InvoiceHandler, mw guard) {
	e.GET("/invoices", mw(h.List))
	e.GET("/invoices/{id}", mw(h.Get))
	e.GET("/invoices/{id}/download", mw(h.Download))
	e.POST("/invoices", mw(h.Create))
	e.POST("/invoices/{id}/mark-sent", mw(h.MarkSent))
	e.POST("/invoices/{id}/mark-paid", mw(h.MarkPaid))
	e.POST("/invoices/send-reminders", mw(h.SendReminders))
	e.DELETE("/invoices/{id}", mw(h.Delete))
}

type invoiceItemPayload struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	TaxRate     *float64 `json:"taxRate"`
}

type createInvoiceRequest struct {
	CustomerID int64                `json:"customerId"`
	IssueDate  string               `json:"issueDate"` // YYYY-MM-DD
	DueDate    string               `json:"dueDate"`
	Items      []invoiceItemPayload `json:"items"`
	Notes      string               `json:"notes"`
}

type invoiceItemDTO struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	Amount      float64 `json:"amount"`
}

type invoiceDTO struct {
	ID            int64            `json:"id"`
	CustomerID    int64            `json:"customerId"`
	InvoiceNumber string           `json:"invoiceNumber"`
	Status        string           `json:"status"`
	IssueDate     string           `json:"issueDate"`
	DueDate       string           `json:"dueDate"`
	Subtotal      float64          `json:"subtotal"`
	TaxAmount     float64          `json:"taxAmount"`
	TotalAmount   float64          `json:"totalAmount"`
	PaidDate      *string          `json:"paidDate"`
	Notes         string           `json:"notes"`
	Items         []invoiceItemDTO `json:"items"`
}

type invoiceListResponse struct {
	Items []invoiceDTO `json:"items"`
	Total int64        `json:"total"`
}

func toInvoiceDTO(inv *model.Invoice) invoiceDTO {
	items := make([]invoiceItemDTO, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, invoiceItemDTO{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		})
	}
	return invoiceDTO{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssueDate:     formatDate(inv.IssueDate),
		DueDate:       formatDate(inv.DueDate),
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaidDate:      formatDatePtr(inv.PaidDate),
		Notes:         inv.Notes,
		Items:         items,
	}
}

func (h *InvoiceHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)

	var f model.InvoiceFilter
	f.CustomerID = queryInt64(ctx, "customerId")
	if v := query(ctx, "status"); v != "" {
		st := model.InvoiceStatus(v)
		f.Status = &st
	}
	f.From = queryTime(ctx, "from")
	f.To = queryTime(ctx, "to")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			writeJSON(ctx, xhttp.StatusOK, invoiceListResponse{Items: []invoiceDTO{}})
			return
		}
		f.CustomerID = actor.CustomerID
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]invoiceDTO, 0, len(items))
	for _, inv := range items {
		out = append(out, toInvoiceDTO(inv))
	}
	writeJSON(ctx, xhttp.StatusOK, invoiceListResponse{Items: out, Total: total})
}

func (h *InvoiceHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewInvoice(actor, inv) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toInvoiceDTO(inv))
}

// Download renders the invoice as a PDF attachment.
func (h *InvoiceHandler) Download(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewInvoice(actor, inv) {
		forbidden(ctx)
		return
	}

	pdf, err := pdfgen.Invoice(inv, inv.Customer)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, "rendering failed")
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/pdf")
	ctx.Response.Header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", inv.InvoiceNumber+".pdf"))
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyRaw(pdf)
}

func (h *InvoiceHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageInvoices(actor) {
		forbidden(ctx)
		return
	}

	var req createInvoiceRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.InvoiceCreateRequest{
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
	}
	if req.IssueDate != "" {
		t, err := parseTime(req.IssueDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid issueDate")
			return
		}
		p.IssueDate = t
	}
	if req.DueDate != "" {
		t, err := parseTime(req.DueDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid dueDate")
			return
		}
		p.DueDate = t
	}
	for _, it := range req.Items {
		p.Items = append(p.Items, model.InvoiceItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}

	inv, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) MarkSent(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageInvoices(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.svc.MarkSent(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) MarkPaid(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageInvoices(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.svc.MarkPaid(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toInvoiceDTO(inv))
}

// SendReminders flips overdue invoices and queues reminder mails.
func (h *InvoiceHandler) SendReminders(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageInvoices(actor) {
		forbidden(ctx)
		return
	}
	n, err := h.svc.SendReminders(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]int{"reminded": n})
}

func (h *InvoiceHandler) Delete(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageInvoices(actor) {
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
