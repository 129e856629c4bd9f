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

type CreditService interface {
	CreatePackage(ctx context.Context, req model.CreditPackageCreateRequest) (*model.CreditPackage, error)
	GetPackage(ctx context.Context, id int64) (*model.CreditPackage, error)
	UpdatePackage(ctx context.Context, p *model.CreditPackage) (*model.CreditPackage, error)
	DeletePackage(ctx context.Context, id int64) error
	ListPackages(ctx context.Context, activeOnly bool) ([]*model.CreditPackage, error)
	Purchase(ctx context.Context, req model.CreditPurchaseRequest) (*model.CustomerCredit, error)
	Get(ctx context.Context, id int64) (*model.CustomerCredit, error)
	List(ctx context.Context, f model.CreditFilter) ([]*model.CustomerCredit, int64, error)
	UpdateCredit(ctx context.Context, id int64, req model.CreditUpdateRequest) (*model.CustomerCredit, error)
	DeleteCredit(ctx context.Context, id int64) error
	Use(ctx context.Context, creditID int64, amount int) (*model.CustomerCredit, error)
}

type CreditHandler struct {
	svc CreditService
}

func NewCreditHandler(creditService CreditService) *CreditHandler {
	return &CreditHandler{svc: creditService}
}

func RegisterCreditRoutes(e *router.Group, h *CreditHandler, mw guard) {
	e.GET("/credit-packages", mw(h.ListPackages))
	e.GET("/credit-packages/{id}", mw(h.GetPackage))
	e.POST("/credit-packages", mw(h.CreatePackage))
	e.PUT("/credit-packages/{id}", mw(h.UpdatePackage))
	e.DELETE("/credit-packages/{id}", mw(h.DeletePackage))

	e.GET("/customer-credits", mw(h.ListCredits))
	e.GET("/customer-credits/{id}", mw(h.GetCredit))
	e.POST("/customer-credits", mw(h.Purchase))
	e.PUT("/customer-credits/{id}", mw(h.UpdateCredit))
	e.DELETE("/customer-credits/{id}", mw(h.DeleteCredit))
	e.POST("/customer-credits/{id}/use", mw(h.UseCredit))
}

type packagePayload struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	TotalCredits *int     `json:"totalCredits"`
	Price        *float64 `json:"price"`
	ValidityDays *int     `json:"validityDays"`
	Active       *bool    `json:"active"`
}

type packageDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	TotalCredits int     `json:"totalCredits"`
	Price        float64 `json:"price"`
	ValidityDays *int    `json:"validityDays"`
	Active       bool    `json:"active"`
}

type purchaseRequest struct {
	CustomerID      int64 `json:"customerId"`
	CreditPackageID int64 `json:"creditPackageId"`
}

type useCreditRequest struct {
	Amount int `json:"amount"`
}

type creditUpdateRequest struct {
	RemainingCredits *int    `json:"remainingCredits"`
	ExpirationDate   *string `json:"expirationDate"`
}

type creditDTO struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customerId"`
	CreditPackageID  int64     `json:"creditPackageId"`
	TotalCredits     int       `json:"totalCredits"`
	RemainingCredits int       `json:"remainingCredits"`
	PurchaseDate     time.Time `json:"purchaseDate"`
	ExpirationDate   *string   `json:"expirationDate"`
	Status           string    `json:"status"`
}

type creditListResponse struct {
	Items []creditDTO `json:"items"`
	Total int64       `json:"total"`
}

func toPackageDTO(p *model.CreditPackage) packageDTO {
	return packageDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		TotalCredits: p.TotalCredits,
		Price:        p.Price,
		ValidityDays: p.ValidityDays,
		Active:       p.Active,
	}
}

func toCreditDTO(c *model.CustomerCredit) creditDTO {
	return creditDTO{
		ID:               c.ID,
		CustomerID:       c.CustomerID,
		CreditPackageID:  c.CreditPackageID,
		TotalCredits:     c.TotalCredits,
		RemainingCredits: c.RemainingCredits,
		PurchaseDate:     c.PurchaseDate,
		ExpirationDate:   formatDatePtr(c.ExpirationDate),
		Status:           string(c.Status),
	}
}

/* ------------------------------- packages ---------------------------------- */

func (h *CreditHandler) ListPackages(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	// Customers only see packages that can still be purchased.
	activeOnly := !actor.IsStaff() || query(ctx, "active") == "true"

	items, err := h.svc.ListPackages(ctx, activeOnly)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]packageDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toPackageDTO(p))
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"items": out})
}

func (h *CreditHandler) GetPackage(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.GetPackage(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toPackageDTO(p))
}

func (h *CreditHandler) CreatePackage(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePackages(actor) {
		forbidden(ctx)
		return
	}

	var req packagePayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.CreditPackageCreateRequest{
		Name:         str(req.Name),
		Description:  str(req.Description),
		ValidityDays: req.ValidityDays,
	}
	if req.TotalCredits != nil {
		p.TotalCredits = *req.TotalCredits
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	created, err := h.svc.CreatePackage(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toPackageDTO(created))
}

func (h *CreditHandler) UpdatePackage(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePackages(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.GetPackage(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	var req packagePayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.TotalCredits != nil {
		p.TotalCredits = *req.TotalCredits
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ValidityDays != nil {
		p.ValidityDays = req.ValidityDays
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	updated, err := h.svc.UpdatePackage(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toPackageDTO(updated))
}

func (h *CreditHandler) DeletePackage(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManagePackages(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeletePackage(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

/* -------------------------------- credits ---------------------------------- */

func (h *CreditHandler) ListCredits(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)

	var f model.CreditFilter
	f.CustomerID = queryInt64(ctx, "customerId")
	if v := query(ctx, "status"); v != "" {
		st := model.CreditStatus(v)
		f.Status = &st
	}
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			writeJSON(ctx, xhttp.StatusOK, creditListResponse{Items: []creditDTO{}})
			return
		}
		f.CustomerID = actor.CustomerID
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]creditDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCreditDTO(c))
	}
	writeJSON(ctx, xhttp.StatusOK, creditListResponse{Items: out, Total: total})
}

func (h *CreditHandler) GetCredit(ctx *xhttp.RequestCtx) {
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
	if !policy.CanViewCredit(actor, c) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCreditDTO(c))
}

func (h *CreditHandler) Purchase(ctx *xhttp.RequestCtx) {
	var req purchaseRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}

	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			forbidden(ctx)
			return
		}
		req.CustomerID = *actor.CustomerID
	}
	if !policy.CanPurchaseCredit(actor, req.CustomerID) {
		forbidden(ctx)
		return
	}

	c, err := h.svc.Purchase(ctx, model.CreditPurchaseRequest{
		CustomerID:      req.CustomerID,
		CreditPackageID: req.CreditPackageID,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toCreditDTO(c))
}

func (h *CreditHandler) UpdateCredit(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageCredits(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	var req creditUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	upd := model.CreditUpdateRequest{RemainingCredits: req.RemainingCredits}
	if req.ExpirationDate != nil {
		t, err := parseTime(*req.ExpirationDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid expirationDate")
			return
		}
		upd.ExpirationDate = &t
	}

	updated, err := h.svc.UpdateCredit(ctx, id, upd)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCreditDTO(updated))
}

func (h *CreditHandler) DeleteCredit(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageCredits(actor) {
		forbidden(ctx)
		return
	}
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteCredit(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *CreditHandler) UseCredit(ctx *xhttp.RequestCtx) {
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
	if !policy.CanUseCredit(actor, c) {
		forbidden(ctx)
		return
	}

	req := useCreditRequest{Amount: 1}
	if len(ctx.PostBody()) > 0 {
		if err := readJSON(ctx, &req); err != nil {
			badRequest(ctx, err)
			return
		}
	}

	updated, err := h.svc.Use(ctx, id, req.Amount)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCreditDTO(updated))
}
