package handler

import (
	"context"
	"go-user-api/common"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
	"strings"
)

type contextKey string

const UserKey contextKey = "user"

// UserFromContext returns the authenticated user placed in the request
// context by AuthMiddleware, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
	}
	return headerParts[1], nil
}

// AuthMiddleware authenticates requests with a bearer access token. The
// resolved user, role attached, is stored in the request context for
// handlers and the role middleware.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, appErr := BearerToken(r)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			user, err := authService.ResolveAccessToken(tokenString)
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles gates an already-authenticated operation on a declared set of
// allowed roles. With no roles declared it passes everyone through.
func RequireRoles(authService *service.AuthService, roles ...model.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
				return
			}

			if err := authService.Authorize(user, roles...); err != nil {
				common.NewAppError(http.StatusForbidden, "Access denied. Insufficient role permissions.", nil).Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
