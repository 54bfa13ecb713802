// Command devtoken mints a JWT pair for a given user so the API can be
// exercised from curl or an HTTP client during development. The intranet
// gateway issues real tokens in production.
package main

import (
	"flag"
	"fmt"
	"log"

	"trainhub/internal/config"
	"trainhub/internal/dto"
	"trainhub/internal/service"
)

func main() {
	userID := flag.String("user", "", "user id to mint tokens for (required)")
	name := flag.String("name", "Dev User", "display name embedded in the token")
	email := flag.String("email", "dev@example.com", "email embedded in the token")
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing required flag: -user")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	authService := service.NewAuthService(cfg)
	identity := dto.UserIdentity{ID: *userID, Name: *name, Email: *email}

	accessToken, err := authService.CreateAccessToken(identity)
	if err != nil {
		log.Fatalf("Failed to create access token: %v", err)
	}
	refreshToken, err := authService.CreateRefreshToken(identity)
	if err != nil {
		log.Fatalf("Failed to create refresh token: %v", err)
	}

	fmt.Printf("access_token:  %s\n", accessToken)
	fmt.Printf("refresh_token: %s\n", refreshToken)
}
