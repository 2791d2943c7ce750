package models

import "github.com/golang-jwt/jwt/v5"

// Role labels API principals.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleViewer Role = "VIEWER"
)

// JWTClaims is the token payload issued by the auth service.
type JWTClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}
