package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shaonsust/poll-app/internal/adapters/repository/postgres"
	"github.com/shaonsust/poll-app/internal/config"
)

// Usage: migrations [flags] up|down|<migration name>
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("a migration name, \"up\" or \"down\" is required.")
	}
	migrationName := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	switch migrationName {
	case "up", "down":
		if err := postgres.ApplyMigrations(ctx, db, migrationName); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		fmt.Printf("All %s migrations executed successfully.\n", migrationName)
	default:
		name, err := postgres.ApplyMigration(ctx, db, migrationName)
		if err != nil {
			log.Fatalf("Failed to execute migration: %v", err)
		}
		fmt.Printf("Migration file %s executed successfully.\n", name)
	}
}
