// Package httpapi exposes the registration engine over HTTP. It is a
// translation layer only: request decoding, locale negotiation, and the
// domain-error-to-status mapping live here, the business rules do not.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/infrastructure/lock"
	"servcore/internal/ports/input"
	"servcore/internal/ports/output"
)

// LockStats is implemented by the in-process lock manager; the /stats
// endpoint surfaces its counters for operational visibility.
type LockStats interface {
	Stats() lock.Stats
}

type Handler struct {
	engine     input.RegistrationUseCase
	admin      input.AdminUseCase
	translator output.T
	lockStats  LockStats
}

func NewHandler(
	engine input.RegistrationUseCase,
	admin input.AdminUseCase,
	translator output.T,
	lockStats LockStats,
) *Handler {
	return &Handler{
		engine:     engine,
		admin:      admin,
		translator: translator,
		lockStats:  lockStats,
	}
}

type createEventRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at,omitzero"`
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	event := &entities.Event{Title: req.Title, StartsAt: req.StartsAt}
	if err := h.admin.CreateEvent(r.Context(), event); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

type createRoleRequest struct {
	Name            string `json:"name"`
	MaxParticipants int    `json:"max_participants"`
}

// CreateRole handles POST /events/{eventID}/roles.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	role := &entities.EventRole{
		EventID:         chi.URLParam(r, "eventID"),
		Name:            req.Name,
		MaxParticipants: req.MaxParticipants,
	}
	if err := h.admin.CreateRole(r.Context(), role); err != nil {
		if domain.Code(err) != "" {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toRoleResponse(role))
}

type updateCapacityRequest struct {
	MaxParticipants int `json:"max_participants"`
}

// UpdateRoleCapacity handles PATCH /events/{eventID}/roles/{roleID}.
func (h *Handler) UpdateRoleCapacity(w http.ResponseWriter, r *http.Request) {
	var req updateCapacityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	role, err := h.admin.UpdateRoleCapacity(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"), req.MaxParticipants)
	if err != nil {
		if domain.Code(err) != "" {
			h.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toRoleResponse(role))
}

type signUpRequest struct {
	UserID string `json:"user_id"`
	Notes  string `json:"notes"`
}

// SignUp handles POST /events/{eventID}/roles/{roleID}/signups.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	reg, err := h.engine.SignUp(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"), req.UserID, req.Notes)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

type cancelRequest struct {
	UserID string `json:"user_id"`
}

// Cancel handles POST /events/{eventID}/roles/{roleID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if err := h.engine.Cancel(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"), req.UserID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	UserID   string `json:"user_id"`
	ToRoleID string `json:"to_role_id"`
}

// Move handles POST /events/{eventID}/roles/{roleID}/move, where {roleID} is
// the source role.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.ToRoleID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and to_role_id are required"})
		return
	}
	reg, err := h.engine.MoveBetweenRoles(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"), req.ToRoleID, req.UserID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

type removeRequest struct {
	UserID    string `json:"user_id"`
	RemovedBy string `json:"removed_by"`
}

// AdminRemove handles POST /events/{eventID}/roles/{roleID}/remove.
func (h *Handler) AdminRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.RemovedBy) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and removed_by are required"})
		return
	}
	if err := h.engine.AdminRemove(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"), req.UserID, req.RemovedBy); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRoleSignups handles GET /events/{eventID}/roles/{roleID}/signups.
func (h *Handler) ListRoleSignups(w http.ResponseWriter, r *http.Request) {
	regs, err := h.admin.ListRoleSignups(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]registrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationResponse(&regs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// RoleAvailability handles GET /events/{eventID}/roles/{roleID}/availability.
func (h *Handler) RoleAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.engine.GetRoleAvailability(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "roleID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

// SignupCounts handles GET /events/{eventID}/signup-counts.
func (h *Handler) SignupCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.engine.GetEventSignupCounts(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LockStatsHandler handles GET /stats.
func (h *Handler) LockStatsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.lockStats.Stats())
}
