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

type DogService interface {
	Create(ctx context.Context, req model.DogCreateRequest) (*model.Dog, error)
	Get(ctx context.Context, id int64) (*model.Dog, error)
	List(ctx context.Context, f model.DogFilter) ([]*model.Dog, int64, error)
	Update(ctx context.Context, d *model.Dog) (*model.Dog, error)
	Delete(ctx context.Context, id int64) error
}

type DogHandler struct {
	svc DogService
}

func NewDogHandler(dogService DogService) *DogHandler {
	return &DogHandler{svc: dogService}
}

func RegisterDogRoutes(e *router.Group, h *DogHandler, mw guard) {
	e.GET("/dogs", mw(h.List))
	e.GET("/dogs/{id}", mw(h.Get))
	e.POST("/dogs", mw(h.Create))
	e.PUT("/dogs/{id}", mw(h.Update))
	e.DELETE("/dogs/{id}", mw(h.Delete))
}

type dogPayload struct {
	CustomerID *int64  `json:"customerId"`
	Name       *string `json:"name"`
	Breed      *string `json:"breed"`
	BirthDate  *string `json:"birthDate"` // YYYY-MM-DD
	Gender     *string `json:"gender"`
	Neutered   *bool   `json:"neutered"`
	Notes      *string `json:"notes"`
}

type dogDTO struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	Name       string    `json:"name"`
	Breed      string    `json:"breed"`
	BirthDate  *string   `json:"birthDate"`
	Gender     string    `json:"gender"`
	Neutered   bool      `json:"neutered"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type dogListResponse struct {
	Items []dogDTO `json:"items"`
	Total int64    `json:"total"`
}

func toDogDTO(d *model.Dog) dogDTO {
	return dogDTO{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Name:       d.Name,
		Breed:      d.Breed,
		BirthDate:  formatDatePtr(d.BirthDate),
		Gender:     d.Gender,
		Neutered:   d.Neutered,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
	}
}

func toDogDTOs(items []*model.Dog) []dogDTO {
	out := make([]dogDTO, 0, len(items))
	for _, d := range items {
		out = append(out, toDogDTO(d))
	}
	return out
}

func (h *DogHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)

	var f model.DogFilter
	if v := query(ctx, "search"); v != "" {
		f.Search = &v
	}
	f.CustomerID = queryInt64(ctx, "customerId")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	// Customers only ever see their own dogs.
	if !actor.IsStaff() {
		if actor.CustomerID == nil {
			writeJSON(ctx, xhttp.StatusOK, dogListResponse{Items: []dogDTO{}})
			return
		}
		f.CustomerID = actor.CustomerID
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dogListResponse{Items: toDogDTOs(items), Total: total})
}

func (h *DogHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewDog(actor, d) {
		forbidden(ctx)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toDogDTO(d))
}

func (h *DogHandler) Create(ctx *xhttp.RequestCtx) {
	var req dogPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}

	p := model.DogCreateRequest{
		Name:   str(req.Name),
		Breed:  str(req.Breed),
		Gender: str(req.Gender),
		Notes:  str(req.Notes),
	}
	if req.CustomerID != nil {
		p.CustomerID = *req.CustomerID
	}
	if req.Neutered != nil {
		p.Neutered = *req.Neutered
	}
	if req.BirthDate != nil {
		t, err := parseTime(*req.BirthDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid birthDate")
			return
		}
		p.BirthDate = &t
	}

	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCreateDog(actor, p.CustomerID) {
		forbidden(ctx)
		return
	}

	d, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toDogDTO(d))
}

func (h *DogHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanUpdateDog(actor, d) {
		forbidden(ctx)
		return
	}

	var req dogPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Breed != nil {
		d.Breed = *req.Breed
	}
	if req.Gender != nil {
		d.Gender = *req.Gender
	}
	if req.Neutered != nil {
		d.Neutered = *req.Neutered
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	if req.BirthDate != nil {
		t, err := parseTime(*req.BirthDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid birthDate")
			return
		}
		d.BirthDate = &t
	}

	updated, err := h.svc.Update(ctx, d)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toDogDTO(updated))
}

func (h *DogHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeleteDog(actor, d) {
		forbidden(ctx)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
