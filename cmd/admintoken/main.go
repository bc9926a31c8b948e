package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/shaonsust/poll-app/internal/config"
	"github.com/shaonsust/poll-app/internal/core/services"
)

// admintoken mints a bearer token for the /admin API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var subject string
	flag.StringVar(&subject, "subject", "admin", "Token subject")
	flag.DurationVar(&cfg.AdminTokenTTL, "ttl", cfg.AdminTokenTTL, "Token lifetime")
	flag.Parse()

	tokens := services.NewTokenService(cfg.JWTSecret, services.SystemClock{})
	token, err := tokens.Issue(subject, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
