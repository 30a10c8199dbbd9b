package router

import (
	"go-user-api/handler"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-user-api/docs"
)

// NewRouter wires every endpoint. Routes under /api require a valid access
// token; the user-management routes additionally require the Admin role,
// declared here per operation and checked by the role middleware.
func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, roleHandler *handler.RoleHandler, authService *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	adminOnly := handler.RequireRoles(authService, model.RoleAdmin)

	api := http.NewServeMux()
	api.Handle("POST /users", adminOnly(handler.ErrorHandlingMiddleware(userHandler.CreateUser)))
	api.Handle("GET /users", adminOnly(handler.ErrorHandlingMiddleware(userHandler.ListUsers)))
	api.Handle("GET /users/{id}", adminOnly(handler.ErrorHandlingMiddleware(userHandler.GetUser)))
	api.Handle("PATCH /users/{id}", adminOnly(handler.ErrorHandlingMiddleware(userHandler.UpdateUser)))
	api.Handle("DELETE /users/{id}", adminOnly(handler.ErrorHandlingMiddleware(userHandler.DeleteUser)))
	api.Handle("POST /roles", adminOnly(handler.ErrorHandlingMiddleware(roleHandler.CreateRole)))
	api.Handle("GET /roles", handler.ErrorHandlingMiddleware(roleHandler.ListRoles))

	mux.Handle("/api/", http.StripPrefix("/api", handler.AuthMiddleware(authService)(api)))

	return mux
}
