package handler

import (
	"net/http"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/service"
)

// CreateProcurement регистрирует партию продукции в филиале менеджера.
func (h *Handler) CreateProcurement(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req service.ProcurementInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.CreateProcurement(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, b)
}

// ListProcurements возвращает партии филиала или сводку остатков для директора.
func (h *Handler) ListProcurements(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListProcurements(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(list.Batches) == 0 && len(list.Totals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// GetProcurement возвращает партию по идентификатору.
func (h *Handler) GetProcurement(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.GetProcurement(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, b)
}

// UpdateProcurement частично изменяет партию.
func (h *Handler) UpdateProcurement(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch model.BatchPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	b, err := h.service.UpdateProcurement(r.Context(), actor, id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, b)
}

// DeleteProcurement удаляет партию.
func (h *Handler) DeleteProcurement(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteProcurement(r.Context(), actor, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRestockAlerts возвращает уведомления о нехватке продукции в филиале менеджера.
func (h *Handler) ListRestockAlerts(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	alerts, err := h.service.ListRestockAlerts(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(alerts) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, alerts)
}
