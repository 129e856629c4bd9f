// Package handlers exposes the HTTP surface. Request and response bodies use
// camelCase DTOs; the snake_case model structs never cross the boundary.
package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/internal/services"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
	"github.com/pfotenwerk/backoffice/pkg/logger"
)

// guard wraps a handler with authentication. Registrations take it as a
// parameter so /auth/* and /health can stay open.
type guard = func(next xhttp.RequestHandler) xhttp.RequestHandler

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"message": msg})
}

func badRequest(ctx *xhttp.RequestCtx, err error) {
	writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
}

func forbidden(ctx *xhttp.RequestCtx) {
	writeError(ctx, xhttp.StatusForbidden, "not allowed")
}

var notFoundErrs = []error{
	repository.ErrCustomerNotFound,
	repository.ErrDogNotFound,
	repository.ErrCourseNotFound,
	repository.ErrSessionNotFound,
	repository.ErrBookingNotFound,
	repository.ErrPackageNotFound,
	repository.ErrCreditNotFound,
	repository.ErrInvoiceNotFound,
	repository.ErrPaymentNotFound,
	repository.ErrVaccinationNotFound,
	repository.ErrTemplateNotFound,
	repository.ErrResponseNotFound,
	repository.ErrSettingNotFound,
	repository.ErrUserNotFound,
}

var domainErrs = []error{
	services.ErrSessionNotBookable,
	services.ErrOwnershipMismatch,
	services.ErrDuplicateBooking,
	services.ErrInvalidTransition,
	services.ErrNoCreditsRemaining,
	services.ErrCreditNotActive,
	services.ErrPackageInactive,
	services.ErrInvoiceAlreadyPaid,
	services.ErrTemplateInactive,
	services.ErrUserInactive,
	repository.ErrInsufficientCredits,
	repository.ErrDuplicateEmail,
}

// writeServiceError maps domain errors onto HTTP statuses: missing rows are
// 404, rule violations and request validation are 422. Anything the layers
// above did not classify is a server fault and must not leak its message.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	if errors.Is(err, services.ErrSessionFull) {
		writeJSON(ctx, xhttp.StatusUnprocessableEntity, map[string]any{
			"message":        err.Error(),
			"availableSpots": 0,
		})
		return
	}
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
	}
	var vErr model.ValidationError
	if errors.As(err, &vErr) {
		writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error())
		return
	}
	for _, target := range domainErrs {
		if errors.Is(err, target) {
			writeError(ctx, xhttp.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	logger.Error("unhandled service error", "error", err.Error())
	writeError(ctx, xhttp.StatusInternalServerError, "internal server error")
}

/* ------------------------------ parameters --------------------------------- */

func pathID(ctx *xhttp.RequestCtx) (int64, error) {
	s, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryInt64(ctx *xhttp.RequestCtx, key string) *int64 {
	if v := query(ctx, key); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &id
		}
	}
	return nil
}

func queryTime(ctx *xhttp.RequestCtx, key string) *time.Time {
	if v := query(ctx, key); v != "" {
		if t, err := parseTime(v); err == nil {
			return &t
		}
	}
	return nil
}

// pagination fills perPage, page and order from the query string. Field
// defaults live in the repository layer.
func pagination(ctx *xhttp.RequestCtx) (perPage, page int, desc bool) {
	if v := query(ctx, "perPage"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			perPage = n
		}
	}
	if v := query(ctx, "page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	desc = strings.EqualFold(query(ctx, "order"), "desc")
	return perPage, page, desc
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
