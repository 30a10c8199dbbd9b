package service

import (
	"database/sql"
	"errors"
	"go-user-api/model"
	"go-user-api/repository"
)

// RoleService handles role management business logic.
type RoleService struct {
	roleRepo repository.IRoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.IRoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// CreateRole creates a role with a unique name.
func (s *RoleService) CreateRole(req *model.CreateRoleRequest) (*model.Role, error) {
	_, err := s.roleRepo.GetRoleByName(req.Name)
	if err == nil {
		return nil, ErrRoleExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.roleRepo.CreateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles returns every role.
func (s *RoleService) ListRoles() ([]*model.Role, error) {
	return s.roleRepo.ListRoles()
}
