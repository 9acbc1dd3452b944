package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/service"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/validation"
)

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64            `json:"id"`
	FullName  string           `json:"fullName"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Role      model.Role       `json:"role"`
	Branch    model.Branch     `json:"branch"`
	Status    model.UserStatus `json:"status"`
	CreatedAt string           `json:"createdAt"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Branch:    u.Branch,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Login аутентифицирует сотрудника по имени пользователя или email и выдаёт токен доступа.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" {
		login = req.Email
	}

	if login == "" || req.Password == "" {
		h.writeError(w, r, &validation.Error{Fields: []validation.FieldError{
			{Field: "login", Message: "username or email and password are required"},
		}})
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), login, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.authMiddleware.IssueToken(model.Actor{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Branch:   u.Branch,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("user logged in", zap.Int64("userID", u.ID), zap.String("role", string(u.Role)))

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      toUserResponse(*u),
	})
}

// Register создаёт учётную запись сотрудника.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req service.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := h.service.RegisterUser(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toUserResponse(*u))
}

// ListUsers возвращает список сотрудников без хэшей паролей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// DirectorTotals возвращает общую выручку и сумму непогашенного кредита.
func (h *Handler) DirectorTotals(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	totals, err := h.service.DirectorTotals(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, totals)
}
