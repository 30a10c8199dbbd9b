// file: service/errors.go

package service

import "errors"

// Sentinel errors surfaced by the service layer. Handlers translate these
// into HTTP status codes; everything else propagates as an internal error.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response never reveals which half failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated covers every refresh/access token problem: missing,
	// malformed, expired, bad signature, unknown user, stored-hash mismatch.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the caller is authenticated but its role is not in
	// the operation's allowed set.
	ErrForbidden = errors.New("insufficient permissions")

	ErrEmailTaken   = errors.New("email is already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")
)
