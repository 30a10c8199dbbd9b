package handler

import (
	"encoding/json"
	"errors"
	"go-user-api/common"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Authenticate with email and password
// @Description  Verifies credentials and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      model.LoginRequest  true  "Login credentials"
// @Success      200          {object}  service.TokenPair
// @Failure      400          {object}  common.AppError
// @Failure      401          {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithField("email", req.Email)
	log.Info("Login request received")

	user, err := h.authService.GetAuthenticatedUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One message for unknown email and wrong password alike.
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not authenticate user", err)
	}

	pair, err := h.authService.SignIn(user)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not complete sign in", err)
	}

	log.Info("User logged in successfully")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)

	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new access token
// @Description  The refresh token travels as a bearer header and is echoed back unchanged
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError
// @Security     BearerAuth
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	tokenString, appErr := BearerToken(r)
	if appErr != nil {
		return appErr
	}

	claims, err := h.authService.ParseRefreshToken(tokenString)
	if err != nil {
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	pair, err := h.authService.RefreshAccess(claims.Subject, tokenString)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh access token", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)

	return nil
}
