package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// Identity converts the claims into the identity handed to services.
func (c *AuthClaims) Identity() UserIdentity {
	return UserIdentity{ID: c.UserID, Name: c.Name, Email: c.Email}
}
