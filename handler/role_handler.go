package handler

import (
	"encoding/json"
	"errors"
	"go-user-api/common"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
)

type RoleHandler struct {
	service *service.RoleService
}

func NewRoleHandler(service *service.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// CreateRole godoc
// @Summary      Admin creates a new role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        role  body      model.CreateRoleRequest  true  "New role"
// @Success      201   {object}  model.Role
// @Failure      409   {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/roles [post]
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	role, err := h.service.CreateRole(&req)
	if err != nil {
		if errors.Is(err, service.ErrRoleExists) {
			return common.NewAppError(http.StatusConflict, "Role already exists", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create role", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(role)

	return nil
}

// ListRoles godoc
// @Summary      List all roles
// @Tags         roles
// @Produce      json
// @Success      200  {array}  model.Role
// @Security     BearerAuth
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) *common.AppError {
	roles, err := h.service.ListRoles()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve roles", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(roles)

	return nil
}
