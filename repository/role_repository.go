package repository

import (
	"database/sql"
	"go-user-api/logger"
	"go-user-api/model"
)

// IRoleRepository defines the contract for role database operations.
type IRoleRepository interface {
	CreateRole(role *model.Role) error
	GetRoleByID(id int) (*model.Role, error)
	GetRoleByName(name string) (*model.Role, error)
	ListRoles() ([]*model.Role, error)
}

// RoleRepository implements IRoleRepository.
type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

// CreateRole inserts a new role and fills in its generated id.
func (r *RoleRepository) CreateRole(role *model.Role) error {
	log := logger.Log.WithField("role_name", role.Name)
	log.Info("Executing query to create a new role")

	query := `INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id`
	err := r.DB.QueryRow(query, role.Name, role.Description).Scan(&role.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create role query")
		return err
	}
	return nil
}

func (r *RoleRepository) GetRoleByID(id int) (*model.Role, error) {
	role := &model.Role{}
	query := `SELECT id, name, description FROM roles WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("role_id", id).Error("Failed to execute get role by id query")
		}
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) GetRoleByName(name string) (*model.Role, error) {
	role := &model.Role{}
	query := `SELECT id, name, description FROM roles WHERE name = $1`
	err := r.DB.QueryRow(query, name).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("role_name", name).Error("Failed to execute get role by name query")
		}
		return nil, err
	}
	return role, nil
}

// ListRoles retrieves all roles.
func (r *RoleRepository) ListRoles() ([]*model.Role, error) {
	query := `SELECT id, name, description FROM roles ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list roles query")
		return nil, err
	}
	defer rows.Close()

	var roles []*model.Role
	for rows.Next() {
		role := &model.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			logger.Log.WithError(err).Error("Failed to scan role row")
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
