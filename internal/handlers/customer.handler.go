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

type CustomerService interface {
	Create(ctx context.Context, req model.CustomerCreateRequest) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
	Update(ctx context.Context, id int64, req model.CustomerUpdateRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerHandler struct {
	svc CustomerService
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: customerService}
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler, mw guard) {
	e.GET("/customers", mw(h.List))
	e.GET("/customers/{id}", mw(h.Get))
	e.POST("/customers", mw(h.Create))
	e.PUT("/customers/{id}", mw(h.Update))
	e.DELETE("/customers/{id}", mw(h.Delete))
}

type customerPayload struct {
	UserID    *int64  `json:"userId"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Street    *string `json:"street"`
	ZipCode   *string `json:"zipCode"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

type customerDTO struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	ZipCode   string    `json:"zipCode"`
	City      string    `json:"city"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

type customerListResponse struct {
	Items []customerDTO `json:"items"`
	Total int64         `json:"total"`
}

func toCustomerDTO(c *model.Customer) customerDTO {
	return customerDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Street:    c.Street,
		ZipCode:   c.ZipCode,
		City:      c.City,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerDTOs(items []*model.Customer) []customerDTO {
	out := make([]customerDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCustomerDTO(c))
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (h *CustomerHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanListCustomers(actor) {
		forbidden(ctx)
		return
	}

	var f model.CustomerFilter
	if v := query(ctx, "search"); v != "" {
		f.Search = &v
	}
	f.UserID = queryInt64(ctx, "userId")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, customerListResponse{Items: toCustomerDTOs(items), Total: total})
}

func (h *CustomerHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewCustomer(actor, c) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCustomerDTO(c))
}

func (h *CustomerHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCreateCustomer(actor) {
		forbidden(ctx)
		return
	}

	var req customerPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	c, err := h.svc.Create(ctx, model.CustomerCreateRequest{
		UserID:    req.UserID,
		FirstName: str(req.FirstName),
		LastName:  str(req.LastName),
		Email:     str(req.Email),
		Phone:     str(req.Phone),
		Street:    str(req.Street),
		ZipCode:   str(req.ZipCode),
		City:      str(req.City),
		Notes:     str(req.Notes),
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toCustomerDTO(c))
}

func (h *CustomerHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	current, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanUpdateCustomer(actor, current) {
		forbidden(ctx)
		return
	}

	var req customerPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	c, err := h.svc.Update(ctx, id, model.CustomerUpdateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Street:    req.Street,
		ZipCode:   req.ZipCode,
		City:      req.City,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCustomerDTO(c))
}

func (h *CustomerHandler) Delete(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeleteCustomer(actor) {
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
