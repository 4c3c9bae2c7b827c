package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"campus-lms/internal/models"
)

// Context keys populated by JWTMiddleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTMiddleware validates the bearer token, rejects blacklisted (logged-out)
// tokens, and passes user_id and role down via the request context.
func JWTMiddleware(jwtSecret string, blacklist TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.IsTokenBlacklisted(tokenString)
				if err == nil && revoked {
					http.Error(w, "Token revoked", http.StatusUnauthorized)
					return
				}
			}

			token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			userID, ok := (*claims)["user_id"].(float64)
			if !ok {
				http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
				return
			}
			role, _ := (*claims)["role"].(string)

			ctx := context.WithValue(r.Context(), CtxUserID, uint(userID))
			ctx = context.WithValue(ctx, CtxRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// UserID reads the authenticated user from the request context.
func UserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(CtxUserID).(uint)
	return id, ok
}

// Role reads the authenticated user's role from the request context.
func Role(r *http.Request) string {
	role, _ := r.Context().Value(CtxRole).(string)
	return role
}

// IsGrader reports whether the request carries a role allowed to grade and
// manage course-run records.
func IsGrader(r *http.Request) bool {
	switch Role(r) {
	case models.RoleTeacher, models.RoleAdmin, models.RoleOwner:
		return true
	}
	return false
}
