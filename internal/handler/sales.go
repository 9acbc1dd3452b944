package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/service"
)

type allocationResponse struct {
	Entries    []allocation.Entry `json:"entries"`
	TotalValue decimal.Decimal    `json:"totalValue"`
}

type cashSaleResponse struct {
	*model.Sale
	Allocation allocationResponse `json:"allocation"`
}

type creditSaleResponse struct {
	*model.CreditSale
	Allocation allocationResponse `json:"allocation"`
}

func toAllocationResponse(p *allocation.Plan) allocationResponse {
	return allocationResponse{Entries: p.Entries, TotalValue: p.TotalValue}
}

// RecordCashSale оформляет продажу за наличные со списанием по FIFO.
func (h *Handler) RecordCashSale(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req service.CashSaleInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.RecordCashSale(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, cashSaleResponse{
		Sale:       res.Sale,
		Allocation: toAllocationResponse(res.Allocation),
	})
}

// RecordCreditSale оформляет продажу в кредит со списанием по FIFO.
func (h *Handler) RecordCreditSale(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req service.CreditSaleInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.RecordCreditSale(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, creditSaleResponse{
		CreditSale: res.Sale,
		Allocation: toAllocationResponse(res.Allocation),
	})
}

// ListSales возвращает продажи филиала или сводки по филиалам для директора.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	overview, err := h.service.ListSales(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if len(overview.CashSales) == 0 && len(overview.CreditSales) == 0 &&
		len(overview.CashTotals) == 0 && len(overview.CreditTotals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, overview)
}
