// internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ammerola/stockledger/internal/core/domain"
)

const maxJSONBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// responder carries the JSON helpers shared by every handler
type responder struct {
	logger *slog.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps domain error categories onto HTTP statuses.
// Stock errors carry their typed payload in details.
func (h responder) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		insufficient *domain.InsufficientStockError
		negative     *domain.WouldGoNegativeError
	)

	switch {
	case errors.As(err, &insufficient):
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Code: "insufficient_stock", Details: insufficient,
		})
	case errors.As(err, &negative):
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Code: "would_go_negative", Details: negative,
		})
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrWouldGoNegative):
		h.respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "stock_rejected"})
	case errors.Is(err, domain.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, domain.ErrInvalidArgument):
		h.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_argument"})
	case errors.Is(err, domain.ErrInvalidState):
		h.respondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "invalid_state"})
	case errors.Is(err, domain.ErrReferentialIntegrity):
		h.respondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "referential_integrity"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		h.respondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "concurrency_conflict"})
	default:
		h.logger.ErrorContext(r.Context(), "failed to "+action,
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decode reads a JSON body into dst and runs its validate tags
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "invalid_argument",
			Details: validationMessages(err),
		})
		return false
	}
	return true
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "uuid":
			msgs = append(msgs, field+" must be a UUID")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s long", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return msgs
}

// pathID parses the named path value as a UUID, answering 400 when it is not one
func (h responder) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// pagination turns page/limit query values into offset/limit
func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	return limit, (page - 1) * limit
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, domain.InvalidArgument("%s must be a UUID", name)
	}
	return &id, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates
func queryTime(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, domain.InvalidArgument("%s must be RFC 3339 or YYYY-MM-DD", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
