// Package middleware содержит HTTP middleware бэк-офиса.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

type contextKey string

const actorKey contextKey = "actor"

const (
	tokenIssuer     = "kgl"
	defaultTokenTTL = time.Hour
)

// ErrInvalidToken возвращается для неподписанных, просроченных или повреждённых токенов.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims содержит данные сотрудника, зашитые в токен.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Branch   string `json:"branch"`
}

// AuthMiddleware выдаёт и проверяет JWT-токены доступа.
type AuthMiddleware struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом и временем жизни токена.
func NewAuthMiddleware(secret string, ttl time.Duration) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &AuthMiddleware{
		secretKey: key,
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken подписывает токен доступа для сотрудника и возвращает его вместе со временем истечения.
func (a *AuthMiddleware) IssueToken(actor model.Actor) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(actor.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: actor.Username,
		FullName: actor.FullName,
		Role:     string(actor.Role),
		Branch:   string(actor.Branch),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает сотрудника.
func (a *AuthMiddleware) ParseToken(tokenStr string) (model.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return model.Actor{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.Actor{}, ErrInvalidToken
	}

	role := model.Role(claims.Role)
	branch := model.Branch(claims.Branch)
	if !role.IsValid() || !branch.IsValid() {
		return model.Actor{}, ErrInvalidToken
	}

	return model.Actor{
		UserID:   id,
		Username: claims.Username,
		FullName: claims.FullName,
		Role:     role,
		Branch:   branch,
	}, nil
}

// Middleware проверяет заголовок Authorization и добавляет сотрудника в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			deny(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}

		actor, err := a.ParseToken(tokenStr)
		if err != nil {
			deny(w, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRoles пропускает запрос только для перечисленных ролей.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			deny(w, http.StatusForbidden, "Forbidden", "role "+string(actor.Role)+" is not allowed to perform this action")
		})
	}
}

// deny отвечает в том же формате, что и обработчики API.
func deny(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "fail",
		"errorKind": kind,
		"message":   message,
	})
}

// WithActor возвращает контекст с сотрудником.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext извлекает сотрудника из контекста запроса.
func GetActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}
