package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers all routes on a chi router.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", h.handleCreateUser)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/payment-plan", h.handleGetPaymentPlan)
		r.Put("/payment-plan", h.handleUpdatePaymentPlan)
		r.Post("/debts-owed", h.handleAddDebtOwed)
		r.Post("/debts-owing", h.handleAddDebtOwing)
		r.Delete("/debts/{debtID}", h.handleRemoveDebt)
	})

	return r
}
