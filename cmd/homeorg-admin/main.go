package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nastly29/home-organizer/internal/config"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/services"
)

const usage = `Usage:
  homeorg-admin sweep-links              delete memberships of deleted teams
  homeorg-admin migrate-status           print applied migrations
  homeorg-admin issue-token <uid> [email] issue a 24h bearer token for local testing`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "issue-token":
		if len(os.Args) < 3 {
			fmt.Println(usage)
			os.Exit(1)
		}
		email := ""
		if len(os.Args) > 3 {
			email = os.Args[3]
		}
		token, err := services.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer).Issue(os.Args[2], email, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)

	case "sweep-links":
		db := connect(ctx, cfg)
		defer db.Close()

		n, err := services.NewTeamService(db).ReconcileOrphanLinks(ctx)
		if err != nil {
			log.Fatalf("Failed to sweep links: %v", err)
		}
		fmt.Printf("Removed %d orphan membership links\n", n)

	case "migrate-status":
		db := connect(ctx, cfg)
		defer db.Close()

		if err := db.MigrationStatus(ctx); err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}

	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func connect(ctx context.Context, cfg *config.Config) *database.DB {
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}
