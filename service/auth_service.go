// file: service/auth_service.go

package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"go-user-api/config"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Refresh-token digest parameters. The digest is what gets stored; the raw
// token never touches the database.
const (
	tokenHashIterations = 10000
	tokenHashKeyLength  = 64
)

// TokenPair is returned by SignIn and RefreshAccess.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService orchestrates credential verification, token issuing and
// refresh-session storage.
type AuthService struct {
	userRepo repository.IUserRepository
	cfg      *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.IUserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// HashPassword derives a bcrypt hash with the configured cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Auth.BcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a stored bcrypt
// hash. It fails closed: any mismatch, including an empty stored hash,
// returns false.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GetAuthenticatedUser looks up the user by email and verifies the password.
// Unknown email and wrong password both come back as ErrInvalidCredentials;
// storage failures propagate unchanged.
func (s *AuthService) GetAuthenticatedUser(email, password string) (*model.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// HashToken derives the storable digest of a refresh token: PBKDF2-SHA512,
// hex-encoded, salted with the process-wide token salt. An empty token maps
// to an empty digest.
func (s *AuthService) HashToken(token string) string {
	if token == "" {
		return ""
	}
	key := pbkdf2.Key([]byte(token), []byte(s.cfg.Auth.TokenSalt), tokenHashIterations, tokenHashKeyLength, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyTokenHash reports whether the token's digest matches the stored one.
func (s *AuthService) VerifyTokenHash(token, storedHash string) bool {
	if token == "" || storedHash == "" {
		return false
	}
	computed := s.HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// GenerateAccessToken mints a signed, expiring access token for the user.
func (s *AuthService) GenerateAccessToken(user *model.User) (string, error) {
	return s.generateToken(user, s.cfg.JWT.AccessSecret, s.cfg.JWT.AccessTTLSeconds)
}

// GenerateRefreshToken mints a signed, expiring refresh token for the user.
// It is signed with its own secret so an access token can never stand in for
// a refresh token, or the other way around.
func (s *AuthService) GenerateRefreshToken(user *model.User) (string, error) {
	return s.generateToken(user, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTTLSeconds)
}

func (s *AuthService) generateToken(user *model.User, secret string, ttlSeconds int) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSeconds) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseAccessToken verifies an access token's signature and expiry and
// returns its claims. Every failure collapses into ErrUnauthenticated.
func (s *AuthService) ParseAccessToken(tokenString string) (*model.AppClaims, error) {
	return s.parseToken(tokenString, s.cfg.JWT.AccessSecret)
}

// ParseRefreshToken verifies a refresh token's signature and expiry and
// returns its claims. Signature validity alone is not enough to redeem the
// token; ValidateRefreshToken must corroborate it against the stored hash.
func (s *AuthService) ParseRefreshToken(tokenString string) (*model.AppClaims, error) {
	return s.parseToken(tokenString, s.cfg.JWT.RefreshSecret)
}

func (s *AuthService) parseToken(tokenString, secret string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// ResolveAccessToken turns a bearer access token into the acting user,
// re-fetched with its role so authorization can run against fresh state.
func (s *AuthService) ResolveAccessToken(tokenString string) (*model.User, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserWithRole(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// SignIn issues the token pair for an already-verified user and records the
// refresh-token hash. If the hash cannot be stored no pair is returned: an
// unrecorded refresh token could never be redeemed.
func (s *AuthService) SignIn(user *model.User) (*TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.StoreRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// StoreRefreshToken hashes the raw refresh token and persists it as the
// user's current refresh session, replacing whatever was there. A new login
// therefore invalidates every previously issued refresh token.
func (s *AuthService) StoreRefreshToken(userID, token string) error {
	return s.userRepo.UpdateRefreshTokenHash(userID, s.HashToken(token))
}

// ValidateRefreshToken returns the user a presented refresh token belongs to.
// A malformed user id short-circuits before any repository lookup; that, an
// unknown user and a digest mismatch all yield the same ErrUnauthenticated
// so a caller cannot tell which check failed.
func (s *AuthService) ValidateRefreshToken(userID, token string) (*model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !s.VerifyTokenHash(token, user.RefreshTokenHash) {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RefreshAccess exchanges a still-valid refresh token for a new access
// token. The refresh token itself is not rotated: the same one stays valid
// until it expires or the next login overwrites its hash.
func (s *AuthService) RefreshAccess(userID, refreshToken string) (*TokenPair, error) {
	user, err := s.ValidateRefreshToken(userID, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Authorize checks the authenticated user's role against an operation's
// allowed set. An empty set means the operation is open to any authenticated
// user. Failure is ErrForbidden, never ErrUnauthenticated: authentication
// already succeeded by the time this runs.
func (s *AuthService) Authorize(user *model.User, requiredRoles ...model.RoleName) error {
	if len(requiredRoles) == 0 {
		return nil
	}
	if user == nil || user.Role == nil {
		return ErrForbidden
	}
	for _, role := range requiredRoles {
		if user.Role.Name == string(role) {
			return nil
		}
	}
	return ErrForbidden
}
