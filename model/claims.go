package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload embedded in both access and refresh tokens.
// Subject carries the user id; a unique token id (jti) keeps two tokens
// minted in the same second from being byte-identical.
type AppClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
