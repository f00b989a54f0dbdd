// Package api exposes the payment plan service over HTTP as a thin JSON
// layer. Handlers parse requests, delegate to the service and map its
// outcomes onto status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glav/paymeback/internal/models"
	"github.com/glav/paymeback/internal/service"
	"github.com/glav/paymeback/internal/storage"
)

// Handler holds the collaborators the HTTP layer delegates to.
type Handler struct {
	plans *service.PaymentPlanService
	store storage.Store
}

// NewHandler creates a Handler over the given service and store.
func NewHandler(plans *service.PaymentPlanService, store storage.Store) *Handler {
	return &Handler{plans: plans, store: store}
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Email == "" {
		respondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), user.Email); err == nil {
		respondWithError(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleGetPaymentPlan(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	plan, err := h.plans.GetPaymentPlan(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

func (h *Handler) handleUpdatePaymentPlan(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var plan models.UserPaymentPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The plan owner comes from the URL, never the body.
	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	plan.User = user

	result := h.plans.UpdatePaymentPlan(r.Context(), &plan)
	h.respondWithResult(w, result, plan)
}

func (h *Handler) handleAddDebtOwed(w http.ResponseWriter, r *http.Request) {
	h.handleAddDebt(w, r, h.plans.AddDebtOwed)
}

func (h *Handler) handleAddDebtOwing(w http.ResponseWriter, r *http.Request) {
	h.handleAddDebt(w, r, h.plans.AddDebtOwing)
}

func (h *Handler) handleAddDebt(w http.ResponseWriter, r *http.Request,
	add func(ctx context.Context, userID string, debt models.Debt) (models.DataAccessResult, error),
) {
	userID := chi.URLParam(r, "userID")

	var debt models.Debt
	if err := json.NewDecoder(r.Body).Decode(&debt); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := add(r.Context(), userID, debt)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondWithResult(w, result, nil)
}

func (h *Handler) handleRemoveDebt(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	debtID := chi.URLParam(r, "debtID")

	err := h.plans.RemoveDebt(r.Context(), userID, models.Debt{ID: debtID})
	if errors.Is(err, service.ErrNotImplemented) {
		respondWithError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondWithResult maps a DataAccessResult onto the response: failures come
// back as 422 with the field errors, successes echo the payload when given.
func (h *Handler) respondWithResult(w http.ResponseWriter, result models.DataAccessResult, payload any) {
	if !result.Success {
		respondWithJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if payload == nil {
		respondWithJSON(w, http.StatusOK, result)
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
