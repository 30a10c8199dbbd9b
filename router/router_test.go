// file: router/router_test.go

package router_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"go-user-api/config"
	"go-user-api/handler"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/router"
	"go-user-api/service"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "test-access-secret"
	cfg.JWT.AccessTTLSeconds = 900
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.JWT.RefreshTTLSeconds = 3600
	cfg.Auth.TokenSalt = "test-token-salt"
	cfg.Auth.BcryptCost = 4
	return cfg
}

// --- In-memory repositories ---

type memoryUserRepo struct {
	users         map[string]*model.User
	refreshWrites int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*model.User)}
}

func copyUser(u *model.User) *model.User {
	cp := *u
	if u.Role != nil {
		role := *u.Role
		cp.Role = &role
	}
	return &cp
}

func (r *memoryUserRepo) CreateUser(user *model.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *memoryUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryUserRepo) GetUserByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyUser(u), nil
}

func (r *memoryUserRepo) GetUserWithRole(id string) (*model.User, error) {
	return r.GetUserByID(id)
}

func (r *memoryUserRepo) ListUsers(limit, offset int) ([]*model.User, int, error) {
	var all []*model.User
	for _, u := range r.users {
		all = append(all, copyUser(u))
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memoryUserRepo) UpdateUser(user *model.User) error {
	existing, ok := r.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Name = user.Name
	existing.PhoneNumber = user.PhoneNumber
	existing.Address = user.Address
	role := *user.Role
	existing.Role = &role
	return nil
}

func (r *memoryUserRepo) UpdateRefreshTokenHash(id, tokenHash string) error {
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.refreshWrites++
	u.RefreshTokenHash = tokenHash
	return nil
}

func (r *memoryUserRepo) DeleteUser(id string) error {
	delete(r.users, id)
	return nil
}

type memoryRoleRepo struct {
	roles map[int]*model.Role
}

func newMemoryRoleRepo() *memoryRoleRepo {
	return &memoryRoleRepo{roles: map[int]*model.Role{
		1: {ID: 1, Name: "Admin"},
		2: {ID: 2, Name: "Sales"},
		3: {ID: 3, Name: "Accountant"},
	}}
}

func (r *memoryRoleRepo) CreateRole(role *model.Role) error {
	role.ID = len(r.roles) + 1
	r.roles[role.ID] = &model.Role{ID: role.ID, Name: role.Name, Description: role.Description}
	return nil
}

func (r *memoryRoleRepo) GetRoleByID(id int) (*model.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *role
	return &cp, nil
}

func (r *memoryRoleRepo) GetRoleByName(name string) (*model.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			cp := *role
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryRoleRepo) ListRoles() ([]*model.Role, error) {
	var all []*model.Role
	for id := 1; id <= len(r.roles); id++ {
		cp := *r.roles[id]
		all = append(all, &cp)
	}
	return all, nil
}

type memoryCache struct{ store map[string]string }

func (c *memoryCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := c.store[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if data, ok := value.([]byte); ok {
		c.store[key] = string(data)
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.store, key)
	}
	return redis.NewIntResult(0, nil)
}

func (c *memoryCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(c.store[key], 10, 64)
	n++
	c.store[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

// --- Test environment ---

type testEnv struct {
	router      http.Handler
	userRepo    *memoryUserRepo
	authService *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	cfg := testConfig()
	userRepo := newMemoryUserRepo()
	roleRepo := newMemoryRoleRepo()

	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, roleRepo, authService, &memoryCache{store: make(map[string]string)})
	roleService := service.NewRoleService(roleRepo)

	r := router.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		authService,
	)

	env := &testEnv{router: r, userRepo: userRepo, authService: authService}
	env.seedUser(t, "admin@test.com", "password123", 1, "Admin")
	env.seedUser(t, "sales@test.com", "password123", 2, "Sales")
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password string, roleID int, roleName string) *model.User {
	hashed, err := e.authService.HashPassword(password)
	assert.NoError(t, err)
	user := &model.User{
		Email:    email,
		Password: hashed,
		Name:     email,
		Role:     &model.Role{ID: roleID, Name: roleName},
	}
	assert.NoError(t, e.userRepo.CreateUser(user))
	return user
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) login(t *testing.T, email, password string) service.TokenPair {
	body := fmt.Sprintf(`{"email": "%s", "password": "%s"}`, email, password)
	rr := e.do("POST", "/auth/login", body, "")
	assert.Equal(t, http.StatusOK, rr.Code, "login request should be successful")

	var pair service.TokenPair
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pair))
	return pair
}

// --- Test suites ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("successful login returns a distinct token pair", func(t *testing.T) {
		pair := env.login(t, "sales@test.com", "password123")
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		claims, err := env.authService.ParseAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, "sales@test.com", claims.Email)
	})

	t.Run("wrong password is rejected without a repository write", func(t *testing.T) {
		writesBefore := env.userRepo.refreshWrites

		body := `{"email": "sales@test.com", "password": "wrongpassword"}`
		rr := env.do("POST", "/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, writesBefore, env.userRepo.refreshWrites)
	})

	t.Run("unknown email gets the same response as a wrong password", func(t *testing.T) {
		wrongPassword := env.do("POST", "/auth/login", `{"email": "sales@test.com", "password": "wrongpassword"}`, "")
		unknownEmail := env.do("POST", "/auth/login", `{"email": "nobody@test.com", "password": "password123"}`, "")

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		rr := env.do("POST", "/auth/login", `{"email": "not-an-email"}`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRefreshFlow(t *testing.T) {
	env := newTestEnv(t)
	pair := env.login(t, "sales@test.com", "password123")

	t.Run("refresh returns a new access token and echoes the refresh token", func(t *testing.T) {
		rr := env.do("POST", "/auth/refresh", "", pair.RefreshToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var refreshed service.TokenPair
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))
		assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
	})

	t.Run("an access token cannot be used as a refresh token", func(t *testing.T) {
		rr := env.do("POST", "/auth/refresh", "", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("a missing bearer header is rejected", func(t *testing.T) {
		rr := env.do("POST", "/auth/refresh", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("a second login invalidates the earlier refresh token", func(t *testing.T) {
		env.login(t, "sales@test.com", "password123")

		rr := env.do("POST", "/auth/refresh", "", pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	adminPair := env.login(t, "admin@test.com", "password123")
	salesPair := env.login(t, "sales@test.com", "password123")

	t.Run("admin can list users", func(t *testing.T) {
		rr := env.do("GET", "/api/users", "", adminPair.AccessToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var list model.UserList
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Equal(t, 1, list.TotalPages)
		assert.Len(t, list.Users, 2)
	})

	t.Run("non-admin role is forbidden, not unauthenticated", func(t *testing.T) {
		rr := env.do("GET", "/api/users", "", salesPair.AccessToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing token is unauthenticated", func(t *testing.T) {
		rr := env.do("GET", "/api/users", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is unauthenticated", func(t *testing.T) {
		rr := env.do("GET", "/api/users", "", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("role listing is open to any authenticated user", func(t *testing.T) {
		rr := env.do("GET", "/api/roles", "", salesPair.AccessToken)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestUserCRUD(t *testing.T) {
	env := newTestEnv(t)
	adminPair := env.login(t, "admin@test.com", "password123")

	newUserBody := `{
		"email": "accountant@test.com",
		"password": "Secret1!",
		"name": "New Accountant",
		"phone_number": "0123456789",
		"address": "somewhere",
		"role_id": 3
	}`

	var created model.User
	t.Run("create", func(t *testing.T) {
		rr := env.do("POST", "/api/users", newUserBody, adminPair.AccessToken)
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "Accountant", created.Role.Name)
		assert.NotContains(t, rr.Body.String(), "Secret1!")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rr := env.do("POST", "/api/users", newUserBody, adminPair.AccessToken)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown role id is a bad request", func(t *testing.T) {
		body := strings.Replace(newUserBody, `"role_id": 3`, `"role_id": 99`, 1)
		body = strings.Replace(body, "accountant@test.com", "other@test.com", 1)
		rr := env.do("POST", "/api/users", body, adminPair.AccessToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rr := env.do("GET", "/api/users/"+created.ID, "", adminPair.AccessToken)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		rr := env.do("GET", "/api/users/42", "", adminPair.AccessToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rr := env.do("GET", "/api/users/"+uuid.NewString(), "", adminPair.AccessToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update", func(t *testing.T) {
		body := `{"name": "Renamed", "phone_number": "0987654321", "address": "elsewhere", "role_id": 2}`
		rr := env.do("PATCH", "/api/users/"+created.ID, body, adminPair.AccessToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "Sales", updated.Role.Name)
	})

	t.Run("delete", func(t *testing.T) {
		rr := env.do("DELETE", "/api/users/"+created.ID, "", adminPair.AccessToken)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.do("GET", "/api/users/"+created.ID, "", adminPair.AccessToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRoleManagement(t *testing.T) {
	env := newTestEnv(t)
	adminPair := env.login(t, "admin@test.com", "password123")
	salesPair := env.login(t, "sales@test.com", "password123")

	t.Run("duplicate role name conflicts", func(t *testing.T) {
		body := `{"name": "Sales", "description": "again"}`
		rr := env.do("POST", "/api/roles", body, adminPair.AccessToken)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("creating roles is admin only", func(t *testing.T) {
		body := `{"name": "Accountant", "description": "numbers"}`
		rr := env.do("POST", "/api/roles", body, salesPair.AccessToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("roles are listed in order", func(t *testing.T) {
		rr := env.do("GET", "/api/roles", "", adminPair.AccessToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var roles []*model.Role
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roles))
		assert.Len(t, roles, 3)
		assert.Equal(t, "Admin", roles[0].Name)
	})
}
