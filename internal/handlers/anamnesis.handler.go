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

type AnamnesisService interface {
	CreateTemplate(ctx context.Context, req model.TemplateCreateRequest) (*model.AnamnesisTemplate, error)
	GetTemplate(ctx context.Context, id int64) (*model.AnamnesisTemplate, error)
	ListTemplates(ctx context.Context, f model.TemplateFilter) ([]*model.AnamnesisTemplate, int64, error)
	SetTemplateActive(ctx context.Context, id int64, active bool) error
	DeleteTemplate(ctx context.Context, id int64) error
	SubmitResponse(ctx context.Context, req model.ResponseCreateRequest) (*model.AnamnesisResponse, error)
	GetResponse(ctx context.Context, id int64) (*model.AnamnesisResponse, error)
	ListResponses(ctx context.Context, f model.ResponseFilter) ([]*model.AnamnesisResponse, int64, error)
	UpdateResponse(ctx context.Context, id int64, req model.ResponseUpdateRequest) (*model.AnamnesisResponse, error)
	DeleteResponse(ctx context.Context, id int64) error
}

type AnamnesisHandler struct {
	svc  AnamnesisService
	dogs DogService
}

func NewAnamnesisHandler(anamnesisService AnamnesisService, dogService DogService) *AnamnesisHandler {
	return &AnamnesisHandler{svc: anamnesisService, dogs: dogService}
}

func RegisterAnamnesisRoutes(e *router.Group, h *AnamnesisHandler, mw guard) {
	e.GET("/anamnesis-templates", mw(h.ListTemplates))
	e.GET("/anamnesis-templates/{id}", mw(h.GetTemplate))
	e.POST("/anamnesis-templates", mw(h.CreateTemplate))
	e.PUT("/anamnesis-templates/{id}", mw(h.UpdateTemplate))
	e.DELETE("/anamnesis-templates/{id}", mw(h.DeleteTemplate))

	e.GET("/anamnesis-responses", mw(h.ListResponses))
	e.GET("/anamnesis-responses/{id}", mw(h.GetResponse))
	e.POST("/anamnesis-responses", mw(h.SubmitResponse))
	e.PUT("/anamnesis-responses/{id}", mw(h.UpdateResponse))
	e.DELETE("/anamnesis-responses/{id}", mw(h.DeleteResponse))
}

type questionPayload struct {
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options"`
	Required     bool     `json:"required"`
}

type createTemplateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []questionPayload `json:"questions"`
}

type updateTemplateRequest struct {
	Active *bool `json:"active"`
}

type questionDTO struct {
	ID           int64    `json:"id"`
	Position     int      `json:"position"`
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options"`
	Required     bool     `json:"required"`
}

type templateDTO struct {
	ID          int64         `json:"id"`
	TrainerID   int64         `json:"trainerId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
	Questions   []questionDTO `json:"questions"`
}

type templateListResponse struct {
	Items []templateDTO `json:"items"`
	Total int64         `json:"total"`
}

type answerPayload struct {
	QuestionID    int64    `json:"questionId"`
	AnswerText    string   `json:"answerText"`
	AnswerOptions []string `json:"answerOptions"`
}

type submitResponseRequest struct {
	TemplateID int64           `json:"templateId"`
	DogID      int64           `json:"dogId"`
	Answers    []answerPayload `json:"answers"`
}

type updateResponseRequest struct {
	Answers []answerPayload `json:"answers"`
}

type answerDTO struct {
	ID            int64    `json:"id"`
	QuestionID    int64    `json:"questionId"`
	AnswerText    string   `json:"answerText"`
	AnswerOptions []string `json:"answerOptions"`
}

type responseDTO struct {
	ID          int64       `json:"id"`
	TemplateID  int64       `json:"templateId"`
	DogID       int64       `json:"dogId"`
	SubmittedAt time.Time   `json:"submittedAt"`
	Answers     []answerDTO `json:"answers"`
}

type responseListResponse struct {
	Items []responseDTO `json:"items"`
	Total int64         `json:"total"`
}

func toTemplateDTO(t *model.AnamnesisTemplate) templateDTO {
	questions := make([]questionDTO, 0, len(t.Questions))
	for _, q := range t.Questions {
		questions = append(questions, questionDTO{
			ID:           q.ID,
			Position:     q.Position,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			Options:      q.Options,
			Required:     q.Required,
		})
	}
	return templateDTO{
		ID:          t.ID,
		TrainerID:   t.TrainerID,
		Name:        t.Name,
		Description: t.Description,
		Active:      t.Active,
		Questions:   questions,
	}
}

func toResponseDTO(r *model.AnamnesisResponse) responseDTO {
	answers := make([]answerDTO, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, answerDTO{
			ID:            a.ID,
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: a.AnswerOptions,
		})
	}
	return responseDTO{
		ID:          r.ID,
		TemplateID:  r.TemplateID,
		DogID:       r.DogID,
		SubmittedAt: r.SubmittedAt,
		Answers:     answers,
	}
}

/* ------------------------------- templates --------------------------------- */

func (h *AnamnesisHandler) ListTemplates(ctx *xhttp.RequestCtx) {
	var f model.TemplateFilter
	f.TrainerID = queryInt64(ctx, "trainerId")
	if v := query(ctx, "active"); v != "" {
		active := v == "true"
		f.Active = &active
	}
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	actor, _ := auth.ActorFrom(ctx)
	// Customers only see active questionnaires.
	if !actor.IsStaff() {
		active := true
		f.Active = &active
	}

	items, total, err := h.svc.ListTemplates(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]templateDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTemplateDTO(t))
	}
	writeJSON(ctx, xhttp.StatusOK, templateListResponse{Items: out, Total: total})
}

func (h *AnamnesisHandler) GetTemplate(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.GetTemplate(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toTemplateDTO(t))
}

func (h *AnamnesisHandler) CreateTemplate(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCreateTemplate(actor) {
		forbidden(ctx)
		return
	}

	var req createTemplateRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.TemplateCreateRequest{
		TrainerID:   actor.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	for _, q := range req.Questions {
		p.Questions = append(p.Questions, model.QuestionInput{
			QuestionText: q.QuestionText,
			QuestionType: model.QuestionType(q.QuestionType),
			Options:      q.Options,
			Required:     q.Required,
		})
	}

	t, err := h.svc.CreateTemplate(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toTemplateDTO(t))
}

func (h *AnamnesisHandler) UpdateTemplate(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.GetTemplate(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanUpdateTemplate(actor, t) {
		forbidden(ctx)
		return
	}

	var req updateTemplateRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.Active != nil {
		if err := h.svc.SetTemplateActive(ctx, id, *req.Active); err != nil {
			writeServiceError(ctx, err)
			return
		}
		t.Active = *req.Active
	}
	writeJSON(ctx, xhttp.StatusOK, toTemplateDTO(t))
}

func (h *AnamnesisHandler) DeleteTemplate(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.GetTemplate(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeleteTemplate(actor, t) {
		forbidden(ctx)
		return
	}
	if err := h.svc.DeleteTemplate(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

/* ------------------------------- responses --------------------------------- */

func (h *AnamnesisHandler) ListResponses(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		forbidden(ctx)
		return
	}

	var f model.ResponseFilter
	f.TemplateID = queryInt64(ctx, "templateId")
	f.DogID = queryInt64(ctx, "dogId")
	f.PerPage, f.Page, f.Desc = pagination(ctx)

	items, total, err := h.svc.ListResponses(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]responseDTO, 0, len(items))
	for _, r := range items {
		out = append(out, toResponseDTO(r))
	}
	writeJSON(ctx, xhttp.StatusOK, responseListResponse{Items: out, Total: total})
}

func (h *AnamnesisHandler) GetResponse(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	r, err := h.svc.GetResponse(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		d, err := h.dogs.Get(ctx, r.DogID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		if !policy.CanViewResponse(actor, d.CustomerID) {
			forbidden(ctx)
			return
		}
	}
	writeJSON(ctx, xhttp.StatusOK, toResponseDTO(r))
}

func (h *AnamnesisHandler) SubmitResponse(ctx *xhttp.RequestCtx) {
	var req submitResponseRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}

	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		d, err := h.dogs.Get(ctx, req.DogID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		if !policy.CanSubmitResponse(actor, d.CustomerID) {
			forbidden(ctx)
			return
		}
	}

	p := model.ResponseCreateRequest{
		TemplateID: req.TemplateID,
		DogID:      req.DogID,
	}
	for _, a := range req.Answers {
		p.Answers = append(p.Answers, model.AnswerInput{
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: a.AnswerOptions,
		})
	}

	r, err := h.svc.SubmitResponse(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toResponseDTO(r))
}

// responseForEdit loads the response and checks the actor may amend it via
// the dog's owner.
func (h *AnamnesisHandler) responseForEdit(ctx *xhttp.RequestCtx) (int64, bool) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return 0, false
	}
	r, err := h.svc.GetResponse(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return 0, false
	}

	actor, _ := auth.ActorFrom(ctx)
	if !actor.IsStaff() {
		d, err := h.dogs.Get(ctx, r.DogID)
		if err != nil {
			writeServiceError(ctx, err)
			return 0, false
		}
		if !policy.CanEditResponse(actor, d.CustomerID) {
			forbidden(ctx)
			return 0, false
		}
	}
	return id, true
}

func (h *AnamnesisHandler) UpdateResponse(ctx *xhttp.RequestCtx) {
	id, ok := h.responseForEdit(ctx)
	if !ok {
		return
	}

	var req updateResponseRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.ResponseUpdateRequest{}
	for _, a := range req.Answers {
		p.Answers = append(p.Answers, model.AnswerInput{
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: a.AnswerOptions,
		})
	}

	r, err := h.svc.UpdateResponse(ctx, id, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toResponseDTO(r))
}

func (h *AnamnesisHandler) DeleteResponse(ctx *xhttp.RequestCtx) {
	id, ok := h.responseForEdit(ctx)
	if !ok {
		return
	}
	if err := h.svc.DeleteResponse(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
