package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-user-api/model"
	"go-user-api/repository"
	"time"

	"github.com/google/uuid"
)

const userListCacheTTL = 10 * time.Minute

// Pages are cached under a generation counter. Mutations bump the counter
// instead of enumerating page keys; stale generations age out via TTL.
const userListGenKey = "users:list:gen"

// UserService handles user management business logic.
type UserService struct {
	userRepo    repository.IUserRepository
	roleRepo    repository.IRoleRepository
	authService *AuthService
	cache       ICacheClient
}

// NewUserService creates a new UserService. The AuthService supplies
// password hashing so the bcrypt parameters live in one place.
func NewUserService(userRepo repository.IUserRepository, roleRepo repository.IRoleRepository, authService *AuthService, cache ICacheClient) *UserService {
	return &UserService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		authService: authService,
		cache:       cache,
	}
}

// CreateUser registers a new user with a hashed password and an existing
// role. The email must not be taken.
func (s *UserService) CreateUser(req *model.CreateUserRequest) (*model.User, error) {
	_, err := s.userRepo.GetUserByEmail(req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	role, err := s.roleRepo.GetRoleByID(req.RoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	hashedPassword, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		Password:    hashedPassword,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Role:        role,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	s.invalidateListCache()
	user.Password = ""
	return user, nil
}

// ListUsers returns one page of users plus the total page count, utilizing a
// cache-aside strategy.
func (s *UserService) ListUsers(current, total int) (*model.UserList, error) {
	if current < 1 {
		current = 1
	}
	if total < 1 {
		total = 10
	}

	ctx := context.Background()
	cacheKey := s.listCacheKey(ctx, current, total)

	// 1. Try to get the page from Redis.
	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		list := &model.UserList{}
		if err := json.Unmarshal([]byte(cached), list); err == nil {
			return list, nil
		}
	}

	// 2. Cache miss. Fetch from the database.
	offset := (current - 1) * total
	users, totalItems, err := s.userRepo.ListUsers(total, offset)
	if err != nil {
		return nil, err
	}

	list := &model.UserList{
		Users:      users,
		TotalPages: (totalItems + total - 1) / total,
	}

	// 3. Store the page for future requests.
	if data, err := json.Marshal(list); err == nil {
		s.cache.Set(ctx, cacheKey, data, userListCacheTTL)
	}

	return list, nil
}

// GetUserByID retrieves a single user with its role. A malformed id maps to
// the same not-found outcome as an unknown one.
func (s *UserService) GetUserByID(id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.GetUserWithRole(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser updates a user's profile fields and role assignment.
func (s *UserService) UpdateUser(id string, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetRoleByID(req.RoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	user.Name = req.Name
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address
	user.Role = role

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}

	s.invalidateListCache()
	return user, nil
}

// DeleteUser permanently removes a user.
func (s *UserService) DeleteUser(id string) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.DeleteUser(user.ID); err != nil {
		return nil, err
	}

	s.invalidateListCache()
	return user, nil
}

func (s *UserService) listCacheKey(ctx context.Context, current, total int) string {
	gen, err := s.cache.Get(ctx, userListGenKey).Result()
	if err != nil {
		gen = "0"
	}
	return fmt.Sprintf("users:list:%s:%d:%d", gen, current, total)
}

func (s *UserService) invalidateListCache() {
	s.cache.Incr(context.Background(), userListGenKey)
}
