package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type VaccinationService interface {
	Create(ctx context.Context, req model.VaccinationCreateRequest) (*model.Vaccination, error)
	Get(ctx context.Context, id int64) (*model.Vaccination, error)
	List(ctx context.Context, f model.VaccinationFilter) ([]*model.Vaccination, int64, error)
	ListExpiring(ctx context.Context, within time.Duration) ([]*model.Vaccination, int64, error)
	Update(ctx context.Context, v *model.Vaccination) (*model.Vaccination, error)
	Delete(ctx context.Context, id int64) error
}

type VaccinationHandler struct {
	svc  VaccinationService
	dogs DogService
}

func NewVaccinationHandler(vaccinationService VaccinationService, dogService DogService) *VaccinationHandler {
	return &VaccinationHandler{svc: vaccinationService, dogs: dogService}
}

func RegisterVaccinationRoutes(e *router.Group, h *VaccinationHandler, mw guard) {
	e.GET("/vaccinations", mw(h.List))
	e.GET("/vaccinations/expiring", mw(h.ListExpiring))
	e.GET("/vaccinations/{id}", mw(h.Get))
	e.POST("/vaccinations", mw(h.Create))
	e.PUT("/vaccinations/{id}", mw(h.Update))
	e.DELETE("/vaccinations/{id}", mw(h.Delete))
}

type vaccinationPayload struct {
	DogID           *int64  `json:"dogId"`
	VaccineName     *string `json:"vaccineName"`
	VaccinationDate *string `json:"vaccinationDate"` // YYYY-MM-DD
	ExpiryDate      *string `json:"expiryDate"`
	Veterinarian    *string `json:"veterinarian"`
	Notes           *string `json:"notes"`
}

type vaccinationDTO struct {
	ID              int64   `json:"id"`
	DogID           int64   `json:"dogId"`
	VaccineName     string  `json:"vaccineName"`
	VaccinationDate string  `json:"vaccinationDate"`
	ExpiryDate      *string `json:"expiryDate"`
	Veterinarian    string  `json:"veterinarian"`
	Notes           string  `json:"notes"`
}

type vaccinationListResponse struct {
	Items []vaccinationDTO `json:"items"`
	Total int64            `json:"total"`
}

func toVaccinationDTO(v *model.Vaccination) vaccinationDTO {
	return vaccinationDTO{
		ID:              v.ID,
		DogID:           v.DogID,
		VaccineName:     v.VaccineName,
		VaccinationDate: formatDate(v.VaccinationDate),
		ExpiryDate:      formatDatePtr(v.ExpiryDate),
		Veterinarian:    v.Veterinarian,
		Notes:           v.Notes,
	}
}

func toVaccinationDTOs(items []*model.Vaccination) []vaccinationDTO {
	out := make([]vaccinationDTO, 0, len(items))
	for _, v := range items {
		out = append(out, toVaccinationDTO(v))
	}
	return out
}

// dogCustomerID resolves the owning customer of a vaccination record,
// preferring the preloaded dog.
func (h *VaccinationHandler) dogCustomerID(ctx *xhttp.RequestCtx, v *model.Vaccination) (int64, error) {
	if v.Dog != nil {
		return v.Dog.CustomerID, nil
	}
	d, err := h.dogs.Get(ctx, v.DogID)
	if err != nil {
		return 0, err
	}
	return d.CustomerID, nil
}

func (h *VaccinationHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		forbidden(ctx)
		return
	}

	var f model.VaccinationFilter
	f.DogID = queryInt64(ctx, "dogId")
	f.ExpiresBefore = queryTime(ctx, "expiresBefore")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, vaccinationListResponse{Items: toVaccinationDTOs(items), Total: total})
}

// ListExpiring returns vaccinations expiring within the given number of
// days (default 30).
func (h *VaccinationHandler) ListExpiring(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		forbidden(ctx)
		return
	}

	days := 30
	if v := query(ctx, "days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	items, total, err := h.svc.ListExpiring(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, vaccinationListResponse{Items: toVaccinationDTOs(items), Total: total})
}

func (h *VaccinationHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	v, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	customerID, err := h.dogCustomerID(ctx, v)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewVaccination(actor, customerID) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toVaccinationDTO(v))
}

func (h *VaccinationHandler) Create(ctx *xhttp.RequestCtx) {
	var req vaccinationPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}

	p := model.VaccinationCreateRequest{
		VaccineName:  str(req.VaccineName),
		Veterinarian: str(req.Veterinarian),
		Notes:        str(req.Notes),
	}
	if req.DogID != nil {
		p.DogID = *req.DogID
	}
	if req.VaccinationDate != nil {
		t, err := parseTime(*req.VaccinationDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid vaccinationDate")
			return
		}
		p.VaccinationDate = t
	}
	if req.ExpiryDate != nil {
		t, err := parseTime(*req.ExpiryDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid expiryDate")
			return
		}
		p.ExpiryDate = &t
	}

	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		d, err := h.dogs.Get(ctx, p.DogID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		if !policy.CanManageVaccination(actor, d.CustomerID) {
			forbidden(ctx)
			return
		}
	}

	v, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toVaccinationDTO(v))
}

func (h *VaccinationHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	v, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	customerID, err := h.dogCustomerID(ctx, v)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageVaccination(actor, customerID) {
		forbidden(ctx)
		return
	}

	var req vaccinationPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.VaccineName != nil {
		v.VaccineName = *req.VaccineName
	}
	if req.Veterinarian != nil {
		v.Veterinarian = *req.Veterinarian
	}
	if req.Notes != nil {
		v.Notes = *req.Notes
	}
	if req.VaccinationDate != nil {
		t, err := parseTime(*req.VaccinationDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid vaccinationDate")
			return
		}
		v.VaccinationDate = t
	}
	if req.ExpiryDate != nil {
		t, err := parseTime(*req.ExpiryDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid expiryDate")
			return
		}
		v.ExpiryDate = &t
	}

	updated, err := h.svc.Update(ctx, v)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toVaccinationDTO(updated))
}

func (h *VaccinationHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	v, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	customerID, err := h.dogCustomerID(ctx, v)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageVaccination(actor, customerID) {
		forbidden(ctx)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
