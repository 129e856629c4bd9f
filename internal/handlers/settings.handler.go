package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/policy"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
)

type SettingsService interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Set(ctx context.Context, req model.SettingSetRequest) (*model.Setting, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*model.Setting, error)
}

type SettingsHandler struct {
	svc SettingsService
}

func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: settingsService}
}

func RegisterSettingsRoutes(e *router.Group, h *SettingsHandler, mw guard) {
	e.GET("/settings", mw(h.List))
	e.GET("/settings/{key}", mw(h.Get))
	e.PUT("/settings/{key}", mw(h.Set))
	e.DELETE("/settings/{key}", mw(h.Delete))
}

type setSettingRequest struct {
	Value     string `json:"value"`
	ValueType string `json:"valueType"`
}

type settingDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ValueType string    `json:"valueType"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSettingDTO(s *model.Setting) settingDTO {
	return settingDTO{
		Key:       s.Key,
		Value:     s.Value,
		ValueType: string(s.ValueType),
		UpdatedAt: s.UpdatedAt,
	}
}

func pathKey(ctx *xhttp.RequestCtx) (string, error) {
	key, _ := ctx.UserValue("key").(string)
	if key == "" {
		return "", errors.New("invalid key")
	}
	return key, nil
}

func (h *SettingsHandler) List(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewSettings(actor) {
		forbidden(ctx)
		return
	}
	items, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]settingDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toSettingDTO(s))
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"items": out})
}

func (h *SettingsHandler) Get(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanViewSettings(actor) {
		forbidden(ctx)
		return
	}
	key, err := pathKey(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Get(ctx, key)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toSettingDTO(s))
}

func (h *SettingsHandler) Set(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageSettings(actor) {
		forbidden(ctx)
		return
	}
	key, err := pathKey(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	var req setSettingRequest
	if err := readJSON(ctx, &req); err != nil {
		badRequest(ctx, err)
		return
	}
	valueType := model.SettingType(req.ValueType)
	if req.ValueType == "" {
		valueType = model.SettingTypeString
	}

	s, err := h.svc.Set(ctx, model.SettingSetRequest{
		Key:       key,
		Value:     req.Value,
		ValueType: valueType,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toSettingDTO(s))
}

func (h *SettingsHandler) Delete(ctx *xhttp.RequestCtx) {
	actor, _ := auth.ActorFrom(ctx)
	if !policy.CanManageSettings(actor) {
		forbidden(ctx)
		return
	}
	key, err := pathKey(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Delete(ctx, key); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
