package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type SessionService interface {
	Create(ctx context.Context, req model.SessionCreateRequest) (*model.TrainingSession, error)
	Get(ctx context.Context, id int64) (*model.TrainingSession, error)
	List(ctx context.Context, f model.SessionFilter) ([]*model.TrainingSession, int64, error)
	Update(ctx context.Context, session *model.TrainingSession) (*model.TrainingSession, error)
	Delete(ctx context.Context, id int64) error
	Availability(ctx context.Context, id int64) (*model.SessionAvailability, error)
}

type SessionHandler struct {
	svc SessionService
}

func NewSessionHandler(sessionService SessionService) *SessionHandler {
	return &SessionHandler{svc: sessionService}
}

func RegisterSessionRoutes(e *router.Group, h *SessionHandler, mw guard) {
	e.GET("/training-sessions", mw(h.List))
	e.GET("/training-sessions/{id}", mw(h.Get))
	e.GET("/training-sessions/{id}/availability", mw(h.Availability))
	e.POST("/training-sessions", mw(h.Create))
	e.PUT("/training-sessions/{id}", mw(h.Update))
	e.DELETE("/training-sessions/{id}", mw(h.Delete))
}

type sessionPayload struct {
	CourseID        *int64  `json:"courseId"`
	TrainerID       *int64  `json:"trainerId"`
	SessionDate     *string `json:"sessionDate"` // YYYY-MM-DD
	StartTime       *string `json:"startTime"`   // HH:MM
	EndTime         *string `json:"endTime"`
	MaxParticipants *int    `json:"maxParticipants"`
	Location        *string `json:"location"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

type sessionDTO struct {
	ID              int64  `json:"id"`
	CourseID        *int64 `json:"courseId"`
	TrainerID       int64  `json:"trainerId"`
	SessionDate     string `json:"sessionDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	MaxParticipants int    `json:"maxParticipants"`
	Location        string `json:"location"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

type sessionListResponse struct {
	Items []sessionDTO `json:"items"`
	Total int64        `json:"total"`
}

type availabilityDTO struct {
	SessionID       int64 `json:"sessionId"`
	MaxParticipants int   `json:"maxParticipants"`
	CurrentBookings int   `json:"currentBookings"`
	AvailableSpots  int   `json:"availableSpots"`
	IsFull          bool  `json:"isFull"`
	IsAvailable     bool  `json:"isAvailable"`
}

func toSessionDTO(s *model.TrainingSession) sessionDTO {
	return sessionDTO{
		ID:              s.ID,
		CourseID:        s.CourseID,
		TrainerID:       s.TrainerID,
		SessionDate:     formatDate(s.SessionDate),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		MaxParticipants: s.MaxParticipants,
		Location:        s.Location,
		Notes:           s.Notes,
		Status:          string(s.Status),
	}
}

func (h *SessionHandler) List(ctx *xhttp.RequestCtx) {
	var f model.SessionFilter
	f.CourseID = queryInt64(ctx, "courseId")
	f.TrainerID = queryInt64(ctx, "trainerId")
	if v := query(ctx, "status"); v != "" {
		st := model.SessionStatus(v)
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
	out := make([]sessionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toSessionDTO(s))
	}
	writeJSON(ctx, xhttp.StatusOK, sessionListResponse{Items: out, Total: total})
}

func (h *SessionHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toSessionDTO(s))
}

func (h *SessionHandler) Availability(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	av, err := h.svc.Availability(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, availabilityDTO{
		SessionID:       av.SessionID,
		MaxParticipants: av.MaxParticipants,
		CurrentBookings: av.CurrentBookings,
		AvailableSpots:  av.AvailableSpots,
		IsFull:          av.IsFull,
		IsAvailable:     av.IsAvailable,
	})
}

func (h *SessionHandler) Create(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanCreateSession(actor) {
		forbidden(ctx)
		return
	}

	var req sessionPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	p := model.SessionCreateRequest{
		CourseID:  req.CourseID,
		TrainerID: actor.UserID,
		StartTime: str(req.StartTime),
		EndTime:   str(req.EndTime),
		Location:  str(req.Location),
		Notes:     str(req.Notes),
	}
	if req.TrainerID != nil && actor.IsAdmin() {
		p.TrainerID = *req.TrainerID
	}
	if req.SessionDate != nil {
		t, err := parseTime(*req.SessionDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid sessionDate")
			return
		}
		p.SessionDate = t
	}
	if req.MaxParticipants != nil {
		p.MaxParticipants = *req.MaxParticipants
	}

	s, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toSessionDTO(s))
}

func (h *SessionHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanUpdateSession(actor, s) {
		forbidden(ctx)
		return
	}

	var req sessionPayload
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	if req.SessionDate != nil {
		t, err := parseTime(*req.SessionDate)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid sessionDate")
			return
		}
		s.SessionDate = t
	}
	if req.StartTime != nil {
		s.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		s.EndTime = *req.EndTime
	}
	if req.MaxParticipants != nil {
		s.MaxParticipants = *req.MaxParticipants
	}
	if req.Location != nil {
		s.Location = *req.Location
	}
	if req.Notes != nil {
		s.Notes = *req.Notes
	}
	if req.Status != nil {
		s.Status = model.SessionStatus(*req.Status)
	}

	updated, err := h.svc.Update(ctx, s)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toSessionDTO(updated))
}

func (h *SessionHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanDeleteSession(actor, s) {
		forbidden(ctx)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
