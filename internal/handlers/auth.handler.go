package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/services"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type UserService interface {
	Register(ctx context.Context, req model.UserCreateRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type AuthHandler struct {
	svc UserService
}

func NewAuthHandler(userService UserService) *AuthHandler {
	return &AuthHandler{svc: userService}
}

// RegisterAuthRoutes mounts the only unauthenticated routes of the API.
func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	user, err := h.svc.Register(ctx, model.UserCreateRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, toUserDTO(user))
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	token, user, err := h.svc.Login(ctx, req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(ctx, xhttp.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, loginResponse{Token: token, User: toUserDTO(user)})
}
