package handler

import (
	"encoding/json"
	"errors"
	"go-user-api/common"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser godoc
// @Summary      Admin creates a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      model.CreateUserRequest  true  "New user"
// @Success      201   {object}  model.User
// @Failure      400   {object}  common.AppError
// @Failure      409   {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"email":   req.Email,
		"role_id": req.RoleID,
	})
	log.Info("Create user request received")

	user, err := h.service.CreateUser(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return common.NewAppError(http.StatusConflict, "Email is already registered", nil)
		case errors.Is(err, service.ErrRoleNotFound):
			return common.NewAppError(http.StatusBadRequest, "Unknown role id", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)

	return nil
}

// ListUsers godoc
// @Summary      Admin lists users with pagination
// @Tags         users
// @Produce      json
// @Param        current  query     int  false  "Page number"     default(1)
// @Param        total    query     int  false  "Items per page"  default(10)
// @Success      200      {object}  model.UserList
// @Security     BearerAuth
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, _ := strconv.Atoi(r.URL.Query().Get("current"))
	total, _ := strconv.Atoi(r.URL.Query().Get("total"))

	list, err := h.service.ListUsers(current, total)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(list)

	return nil
}

// GetUser godoc
// @Summary      Admin gets a specific user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  model.User
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, err := h.service.GetUserByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)

	return nil
}

// UpdateUser godoc
// @Summary      Admin updates user information
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "User id"
// @Param        user  body      model.UpdateUserRequest  true  "Updated fields"
// @Success      200   {object}  model.User
// @Failure      400   {object}  common.AppError
// @Failure      404   {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{id} [patch]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.UpdateUser(r.PathValue("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		case errors.Is(err, service.ErrRoleNotFound):
			return common.NewAppError(http.StatusBadRequest, "Unknown role id", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)

	return nil
}

// DeleteUser godoc
// @Summary      Admin deletes a user permanently
// @Tags         users
// @Produce      json
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id := r.PathValue("id")

	log := logger.Log.WithField("user_id", id)
	log.Warn("Delete user request received")

	if _, err := h.service.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete user", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
