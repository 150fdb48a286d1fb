package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type registrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	RoleID       string    `json:"role_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

type eventResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at,omitzero"`
}

type roleResponse struct {
	ID              string `json:"id"`
	EventID         string `json:"event_id"`
	Name            string `json:"name"`
	MaxParticipants int    `json:"max_participants"`
}

func toEventResponse(event *entities.Event) eventResponse {
	return eventResponse{ID: event.ID, Title: event.Title, StartsAt: event.StartsAt}
}

func toRoleResponse(role *entities.EventRole) roleResponse {
	return roleResponse{
		ID:              role.ID,
		EventID:         role.EventID,
		Name:            role.Name,
		MaxParticipants: role.MaxParticipants,
	}
}

func toRegistrationResponse(reg *entities.Registration) registrationResponse {
	return registrationResponse{
		ID:           reg.ID,
		EventID:      reg.EventID,
		RoleID:       reg.RoleID,
		UserID:       reg.UserID,
		Status:       reg.Status,
		Notes:        reg.Notes,
		RegisteredAt: reg.RegisteredAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusForCode maps a domain error code to an HTTP status. Capacity and
// duplicate rejections are conflicts; lock timeouts are transient.
func statusForCode(code string) int {
	switch code {
	case "event_not_found", "role_not_found", "not_registered":
		return http.StatusNotFound
	case "capacity_exceeded", "duplicate_registration", "role_became_full",
		"target_role_full", "target_role_became_full", "capacity_below_count":
		return http.StatusConflict
	case "lock_timeout":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders a failure as a localized JSON error. Domain errors
// keep their stable code; anything else is reported as an internal error
// without leaking storage details.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	if code == "" {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: h.translator.T(localeFromRequest(r), "internal_error", nil),
		})
		return
	}
	writeJSON(w, statusForCode(code), errorResponse{
		Error: h.translator.T(localeFromRequest(r), code, nil),
		Code:  code,
	})
}

// localeFromRequest picks the locale from the ?locale query parameter, then
// the first Accept-Language entry.
func localeFromRequest(r *http.Request) string {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return locale
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	return first
}
