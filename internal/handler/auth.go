package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

type ctxKey int

const roleKey ctxKey = iota

// Claims carried by session tokens issued by the application shell.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate resolves the caller's role from an HS256 bearer token. Requests
// without a token continue as guests; a bad token is rejected.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := model.RoleGuest

			if header := r.Header.Get("Authorization"); header != "" {
				raw, ok := strings.CutPrefix(header, "Bearer ")
				if !ok {
					WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "expected bearer token"})
					return
				}
				claims, err := ParseToken(secret, raw)
				if err != nil {
					WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
					return
				}
				role = model.ParseRole(claims.Role)
			}

			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

func ParseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// SignToken issues a token for role; used by tooling and tests.
func SignToken(secret []byte, subject string, role model.Role) (string, error) {
	claims := Claims{
		Role:             role.String(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func WithRole(ctx context.Context, role model.Role) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

func RoleFromContext(ctx context.Context) model.Role {
	role, ok := ctx.Value(roleKey).(model.Role)
	if !ok {
		return model.RoleGuest
	}
	return role
}

// RequireRole lets the request through when the caller's role is at least required.
func RequireRole(required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !model.AtLeast(role, required) {
				status := http.StatusForbidden
				if role == model.RoleGuest {
					status = http.StatusUnauthorized
				}
				WriteJSON(w, status, map[string]string{"error": "requires role " + required.String()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireFeature hides a route entirely while its feature is switched off.
func RequireFeature(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
