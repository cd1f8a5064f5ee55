// Command devtoken prints a permanent development token signed with the
// configured JWT secret. Paste it into an Authorization header:
//
//	Authorization: Bearer <token>
//
// The token only works while the server runs with the dev-token bypass
// enabled (ENVIRONMENT != production).
package main

import (
	"fmt"
	"log"
	"time"

	"nutritrack/internal/auth"
	"nutritrack/internal/config"
)

func main() {
	cfg := config.Load()

	jwtService := auth.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	token, err := jwtService.GenerateDevToken()
	if err != nil {
		log.Fatalf("generate dev token: %v", err)
	}

	fmt.Println(token)
}
