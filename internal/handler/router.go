package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/access"
	custommiddleware "github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/middleware"
)

func allowed(action access.Action) func(http.Handler) http.Handler {
	return custommiddleware.RequireRoles(access.Roles(action)...)
}

// SetupRouter настраивает HTTP-маршруты и middleware бэк-офиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.With(allowed(access.ActionUserRegister)).Post("/register", h.Register)
			r.With(allowed(access.ActionUserList)).Get("/", h.ListUsers)
			r.With(allowed(access.ActionReportTotals)).Get("/director/totals", h.DirectorTotals)
		})
	})

	r.Route("/api/procurements", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.With(allowed(access.ActionProcurementList)).Get("/", h.ListProcurements)
		r.With(allowed(access.ActionProcurementCreate)).Post("/", h.CreateProcurement)
		r.With(allowed(access.ActionRestockList)).Get("/alerts", h.ListRestockAlerts)

		r.With(allowed(access.ActionProcurementRead)).Get("/{id}", h.GetProcurement)
		r.With(allowed(access.ActionProcurementUpdate)).Patch("/{id}", h.UpdateProcurement)
		r.With(allowed(access.ActionProcurementDelete)).Delete("/{id}", h.DeleteProcurement)
	})

	r.Route("/api/sales", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.With(allowed(access.ActionSaleList)).Get("/", h.ListSales)
		r.With(allowed(access.ActionSaleCreate)).Post("/cash", h.RecordCashSale)
		r.With(allowed(access.ActionSaleCreate)).Post("/credit", h.RecordCreditSale)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
