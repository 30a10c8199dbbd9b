package repository

import (
	"database/sql"
	"go-user-api/logger"
	"go-user-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	GetUserWithRole(id string) (*model.User, error)
	ListUsers(limit, offset int) ([]*model.User, int, error)
	UpdateUser(user *model.User) error
	UpdateRefreshTokenHash(id, tokenHash string) error
	DeleteUser(id string) error
}

// UserRepository implements IUserRepository on top of Postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user and fills in the generated id and timestamp.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"email":   user.Email,
		"role_id": user.Role.ID,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (email, password, name, phone_number, address, role_id)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Email, user.Password, user.Name, user.PhoneNumber, user.Address, user.Role.ID).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by email, including the password hash and
// the joined role. Used by the login flow.
func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	log := logger.Log.WithField("email", email)
	log.Info("Executing query to get user by email")

	user := &model.User{Role: &model.Role{}}
	query := `SELECT u.id, u.email, u.password, u.name, u.created_at, r.id, r.name, r.description
	          FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email = $1`
	err := r.DB.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt,
		&user.Role.ID, &user.Role.Name, &user.Role.Description,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by id, including the stored refresh-token
// hash. Used by refresh-token validation.
func (r *UserRepository) GetUserByID(id string) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to get user by id")

	user := &model.User{}
	var refreshTokenHash sql.NullString
	query := `SELECT id, email, name, phone_number, address, current_refresh_token, created_at
	          FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PhoneNumber, &user.Address,
		&refreshTokenHash, &user.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user by id query")
		}
		return nil, err
	}
	user.RefreshTokenHash = refreshTokenHash.String
	return user, nil
}

// GetUserWithRole retrieves a user by id with the role joined. Used when an
// authenticated request needs authorization.
func (r *UserRepository) GetUserWithRole(id string) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to get user with role")

	user := &model.User{Role: &model.Role{}}
	query := `SELECT u.id, u.email, u.name, u.phone_number, u.address, u.created_at, r.id, r.name, r.description
	          FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PhoneNumber, &user.Address, &user.CreatedAt,
		&user.Role.ID, &user.Role.Name, &user.Role.Description,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get user with role query")
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns one page of users with their roles, plus the total user
// count for pagination.
func (r *UserRepository) ListUsers(limit, offset int) ([]*model.User, int, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"limit":  limit,
		"offset": offset,
	})
	log.Info("Executing query to list users")

	query := `SELECT u.id, u.email, u.name, u.phone_number, u.address, u.created_at, r.id, r.name, r.description
	          FROM users u JOIN roles r ON r.id = u.role_id ORDER BY u.created_at LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		log.WithError(err).Error("Failed to execute list users query")
		return nil, 0, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{Role: &model.Role{}}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.PhoneNumber, &user.Address, &user.CreatedAt,
			&user.Role.ID, &user.Role.Name, &user.Role.Description,
		); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		log.WithError(err).Error("Failed to count users")
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser updates the mutable profile fields and the role assignment.
func (r *UserRepository) UpdateUser(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user")

	query := `UPDATE users SET name = $1, phone_number = $2, address = $3, role_id = $4 WHERE id = $5`
	_, err := r.DB.Exec(query, user.Name, user.PhoneNumber, user.Address, user.Role.ID, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user query")
		return err
	}
	return nil
}

// UpdateRefreshTokenHash replaces the user's current refresh-token hash.
// The single-row update is the only write to this field, so the last login
// to complete wins.
func (r *UserRepository) UpdateRefreshTokenHash(id, tokenHash string) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to update refresh token hash")

	query := `UPDATE users SET current_refresh_token = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, tokenHash, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update refresh token hash query")
		return err
	}
	return nil
}

// DeleteUser permanently removes a user.
func (r *UserRepository) DeleteUser(id string) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	query := `DELETE FROM users WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return err
	}
	return nil
}
