// Package handler содержит HTTP-обработчики API бэк-офиса.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/locker"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/middleware"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/repository"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/service"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	AuthenticateUser(ctx context.Context, login, password string) (*model.User, error)
	RegisterUser(ctx context.Context, actor model.Actor, in service.RegisterInput) (*model.User, error)
	ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error)
	DirectorTotals(ctx context.Context, actor model.Actor) (*model.DirectorTotals, error)

	CreateProcurement(ctx context.Context, actor model.Actor, in service.ProcurementInput) (*model.Batch, error)
	ListProcurements(ctx context.Context, actor model.Actor) (*service.ProcurementList, error)
	GetProcurement(ctx context.Context, actor model.Actor, id int64) (*model.Batch, error)
	UpdateProcurement(ctx context.Context, actor model.Actor, id int64, patch model.BatchPatch) (*model.Batch, error)
	DeleteProcurement(ctx context.Context, actor model.Actor, id int64) error
	ListRestockAlerts(ctx context.Context, actor model.Actor) ([]model.RestockAlert, error)

	RecordCashSale(ctx context.Context, actor model.Actor, in service.CashSaleInput) (*service.CashSaleResult, error)
	RecordCreditSale(ctx context.Context, actor model.Actor, in service.CreditSaleInput) (*service.CreditSaleResult, error)
	ListSales(ctx context.Context, actor model.Actor) (*service.SalesOverview, error)
}

// Handler реализует HTTP-обработчики API бэк-офиса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// ErrorKind классифицирует ошибку для клиента.
type ErrorKind string

const (
	KindInsufficientStock     ErrorKind = "InsufficientStock"
	KindInvalidIdentityFormat ErrorKind = "InvalidIdentityFormat"
	KindValidationFailed      ErrorKind = "ValidationFailed"
	KindBelowMinimumAmount    ErrorKind = "BelowMinimumAmount"
	KindConcurrentConflict    ErrorKind = "ConcurrentModificationConflict"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindForbidden             ErrorKind = "Forbidden"
	KindNotFound              ErrorKind = "NotFound"
	KindConflict              ErrorKind = "Conflict"
	KindInternal              ErrorKind = "Internal"
)

type errorResponse struct {
	Status        string                  `json:"status"`
	ErrorKind     ErrorKind               `json:"errorKind"`
	Message       string                  `json:"message"`
	Available     *decimal.Decimal        `json:"available,omitempty"`
	Shortfall     *decimal.Decimal        `json:"shortfall,omitempty"`
	NotifyManager bool                    `json:"notifyManager,omitempty"`
	Fields        []validation.FieldError `json:"fields,omitempty"`
}

var errMalformedBody = errors.New("malformed request body")

// classify переводит ошибку в закрытый набор видов ошибок API.
func classify(err error) (int, errorResponse) {
	resp := errorResponse{Status: "fail", Message: err.Error()}

	var (
		insufficient *allocation.InsufficientStockError
		verr         *validation.Error
	)

	switch {
	case errors.As(err, &insufficient):
		available := insufficient.Available
		shortfall := insufficient.Shortfall()
		resp.ErrorKind = KindInsufficientStock
		resp.Message = "Insufficient stock: only " + available.String() + " kg available, short by " +
			shortfall.String() + " kg"
		resp.Available = &available
		resp.Shortfall = &shortfall
		resp.NotifyManager = true
		return http.StatusBadRequest, resp
	case errors.Is(err, validation.ErrInvalidNationalID):
		resp.ErrorKind = KindInvalidIdentityFormat
		resp.Message = validation.ErrInvalidNationalID.Error()
		return http.StatusBadRequest, resp
	case errors.As(err, &verr):
		resp.ErrorKind = KindValidationFailed
		resp.Fields = verr.Fields
		return http.StatusBadRequest, resp
	case errors.Is(err, allocation.ErrNonPositiveQuantity), errors.Is(err, errMalformedBody):
		resp.ErrorKind = KindValidationFailed
		return http.StatusBadRequest, resp
	case errors.Is(err, service.ErrBelowMinimumAmount):
		resp.ErrorKind = KindBelowMinimumAmount
		return http.StatusBadRequest, resp
	case errors.Is(err, repository.ErrStockConflict), errors.Is(err, locker.ErrNotObtained):
		resp.ErrorKind = KindConcurrentConflict
		resp.Message = "stock changed concurrently, please retry"
		return http.StatusConflict, resp
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, middleware.ErrInvalidToken):
		resp.ErrorKind = KindUnauthorized
		return http.StatusUnauthorized, resp
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrInactiveUser):
		resp.ErrorKind = KindForbidden
		return http.StatusForbidden, resp
	case errors.Is(err, repository.ErrBatchNotFound), errors.Is(err, repository.ErrUserNotFound):
		resp.ErrorKind = KindNotFound
		return http.StatusNotFound, resp
	case errors.Is(err, repository.ErrUserExists):
		resp.ErrorKind = KindConflict
		resp.Message = "username or email already exists"
		return http.StatusConflict, resp
	}

	return http.StatusInternalServerError, errorResponse{
		Status:    "error",
		ErrorKind: KindInternal,
		Message:   "internal server error",
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
		)
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response error", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errMalformedBody
	}
	return nil
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		h.writeError(w, r, middleware.ErrInvalidToken)
		return model.Actor{}, false
	}
	return actor, true
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &validation.Error{Fields: []validation.FieldError{{Field: "id", Message: "must be a positive integer"}}}
	}
	return id, nil
}
