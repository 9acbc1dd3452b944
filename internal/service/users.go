package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/access"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/repository"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/validation"
)

// RegisterInput содержит данные нового сотрудника.
type RegisterInput struct {
	FullName string           `json:"fullName" validate:"required,min=2"`
	Username string           `json:"username" validate:"required,min=3,alphanum"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,min=8"`
	Role     model.Role       `json:"role" validate:"required"`
	Branch   model.Branch     `json:"branch" validate:"required"`
	Status   model.UserStatus `json:"status"`
}

func (in RegisterInput) check() error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	var fields []validation.FieldError
	if !in.Role.IsValid() {
		fields = append(fields, validation.FieldError{Field: "role", Message: "is not a known role"})
	}
	if !in.Branch.IsValid() {
		fields = append(fields, validation.FieldError{Field: "branch", Message: "is not a known branch"})
	}
	if (in.Role == model.RoleManager || in.Role == model.RoleSalesAgent) && !in.Branch.IsStockBranch() {
		fields = append(fields, validation.FieldError{Field: "branch", Message: "must be a stock-holding branch for this role"})
	}
	switch in.Status {
	case "", model.UserStatusActive, model.UserStatusPending:
	default:
		fields = append(fields, validation.FieldError{Field: "status", Message: "must be one of: Active Pending"})
	}

	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// RegisterUser регистрирует нового сотрудника.
func (s *Service) RegisterUser(ctx context.Context, actor model.Actor, in RegisterInput) (*model.User, error) {
	if !access.Authorize(actor, access.ActionUserRegister, "") {
		return nil, ErrForbidden
	}

	in.Username = normalizeLogin(in.Username)
	in.Email = normalizeLogin(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := in.check(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, in)
}

func (s *Service) createUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = model.UserStatusActive
	}

	u := model.User{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Branch:       in.Branch,
		Status:       status,
		CreatedAt:    s.now(),
	}

	id, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// AuthenticateUser проверяет логин (имя пользователя или email) и пароль.
func (s *Service) AuthenticateUser(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, normalizeLogin(login))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if u.Status != model.UserStatusActive {
		return nil, ErrInactiveUser
	}

	return u, nil
}

// ListUsers возвращает всех сотрудников.
func (s *Service) ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if !access.Authorize(actor, access.ActionUserList, "") {
		return nil, ErrForbidden
	}
	return s.repo.ListUsers(ctx)
}

// DirectorTotals возвращает общую выручку и сумму непогашенного кредита.
func (s *Service) DirectorTotals(ctx context.Context, actor model.Actor) (*model.DirectorTotals, error) {
	if !access.Authorize(actor, access.ActionReportTotals, "") {
		return nil, ErrForbidden
	}

	revenue, owed, err := s.repo.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &model.DirectorTotals{
		Revenue:           revenue,
		OutstandingCredit: owed,
		ReportGeneratedAt: s.now(),
	}, nil
}

// EnsureDirector создаёт активного директора в головном офисе, если такого логина ещё нет.
func (s *Service) EnsureDirector(ctx context.Context, username, password, email string) error {
	username = normalizeLogin(username)
	if username == "" || password == "" {
		return nil
	}

	_, err := s.repo.GetUserByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("lookup director: %w", err)
	}

	email = normalizeLogin(email)
	if email == "" {
		email = username + "@karibugroceries.local"
	}

	u, err := s.createUser(ctx, RegisterInput{
		FullName: "Director",
		Username: username,
		Email:    email,
		Password: password,
		Role:     model.RoleDirector,
		Branch:   model.BranchHeadquarters,
		Status:   model.UserStatusActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("create director: %w", err)
	}

	s.logger.Info("director account created", zap.Int64("userID", u.ID), zap.String("username", u.Username))
	return nil
}
