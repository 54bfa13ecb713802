package service

import (
	"fmt"
	"time"

	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService issues and validates the intranet JWTs carried by the portal.
type AuthService interface {
	CreateAccessToken(identity dto.UserIdentity) (string, error)
	CreateRefreshToken(identity dto.UserIdentity) (string, error)
	ValidateJWT(tokenString string) (*dto.AuthClaims, error)
}

type authService struct {
	cfg *config.Config
}

// NewAuthService creates a new instance of authService
func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) CreateAccessToken(identity dto.UserIdentity) (string, error) {
	return s.createToken(identity, tokenTypeAccess, accessTokenTTL)
}

func (s *authService) CreateRefreshToken(identity dto.UserIdentity) (string, error) {
	return s.createToken(identity, tokenTypeRefresh, refreshTokenTTL)
}

func (s *authService) createToken(identity dto.UserIdentity, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &dto.AuthClaims{
		UserID:    identity.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", domain.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// ValidateJWT parses and verifies an access token.
func (s *authService) ValidateJWT(tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, &domain.DomainError{Code: domain.CodeUnauthorized, Message: "invalid token", Cause: err}
	}
	if !token.Valid {
		return nil, &domain.DomainError{Code: domain.CodeUnauthorized, Message: "invalid token"}
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, &domain.DomainError{Code: domain.CodeUnauthorized, Message: "not an access token"}
	}
	return claims, nil
}
