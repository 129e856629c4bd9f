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

type CourseService interface {
	Create(ctx context.Context, req model.CourseCreateRequest) (*model.Course, error)
	Get(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context, f model.CourseFilter) ([]*model.Course, int64, error)
	Update(ctx context.Context, c *model.Course) (*model.Course, error)
	Delete(ctx context.Context, id int64) error
}

type CourseHandler struct {
	svc CourseService
}

func NewCourseHandler(courseService CourseService) *CourseHandler {
	return &CourseHandler{svc: courseService}
}

func RegisterCourseRoutes(e *router.Group, h *CourseHandler, mw guard) {
	e.GET("/courses", mw(h.List))
	e.GET("/courses/{id}", mw(h.Get))
	e.POST("/courses", mw(h.Create))
	e.PUT("/courses/{id}", mw(h.Update))
	e.DELETE("/courses/{id}", mw(h.Delete))
}

type coursePayload struct {
	TrainerID       *int64   `json:"trainerId"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	CourseType      *string  `json:"courseType"`
	MaxParticipants *int     `json:"maxParticipants"`
	Price           *float64 `json:"price"`
	Active          *bool    `json:"active"`
}

type courseDTO struct {
	ID              int64     `json:"id"`
	TrainerID       int64     `json:"trainerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CourseType      string    `json:"courseType"`
	MaxParticipants int       `json:"maxParticipants"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
}

type courseListResponse struct {
	Items []courseDTO `json:"items"`
	Total int64       `json:"total"`
}

func toCourseDTO(c *model.Course) courseDTO {
	return courseDTO{
		ID:              c.ID,
		TrainerID:       c.TrainerID,
		Title:           c.Title,
		Description:     c.Description,
		CourseType:      c.CourseType,
		MaxParticipants: c.MaxParticipants,
		Price:           c.Price,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
	}
}

func (h *CourseHandler) List(ctx *xhttp.RequestCtx) {
	var f model.CourseFilter
	f.TrainerID = queryInt64(ctx, "trainerId")
	if v := query(ctx, "search"); v != "" {
		f.Search = &v
	}
	if v := query(ctx, "active"); v != "" {
		active := v == "true"
		f.Active = &active
	}
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]courseDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCourseDTO(c))
	}
	writeJSON(ctx, xhttp.StatusOK, courseListResponse{Items: out, Total: total})
}

func (h *CourseHandler) Get(ctx *xhttp.RequestCtx) {
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
	writeJSON(ctx, xhttp.StatusOK, toCourseDTO(c))
}

func (h *CourseHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCreateCourse(actor) {
		forbidden(ctx)
		return
	}

	var req coursePayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.CourseCreateRequest{
		TrainerID:  actor.UserID,
		Title:      str(req.Title),
		CourseType: str(req.CourseType),
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	// Admins may create courses on behalf of a trainer.
	if req.TrainerID != nil && actor.IsAdmin() {
		p.TrainerID = *req.TrainerID
	}
	if req.MaxParticipants != nil {
		p.MaxParticipants = *req.MaxParticipants
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	c, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toCourseDTO(c))
}

func (h *CourseHandler) Update(ctx *xhttp.RequestCtx) {
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
	if !policy.CanUpdateCourse(actor, c) {
		forbidden(ctx)
		return
	}

	var req coursePayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.CourseType != nil {
		c.CourseType = *req.CourseType
	}
	if req.MaxParticipants != nil {
		c.MaxParticipants = *req.MaxParticipants
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	updated, err := h.svc.Update(ctx, c)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toCourseDTO(updated))
}

func (h *CourseHandler) Delete(ctx *xhttp.RequestCtx) {
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
	if !policy.CanDeleteCourse(actor, c) {
		forbidden(ctx)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
