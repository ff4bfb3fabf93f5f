// Command migrate applies, rolls back, or reports SQL schema migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bloghub/internal/config"
	"bloghub/internal/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: migrate <up|down|status> [flags]\n\n")
		flag.PrintDefaults()
	}
	version := flag.Int("version", 0, "migration version for 'down'")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	switch command {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "down":
		if *version <= 0 {
			log.Fatal("down requires -version")
		}
		if err := database.RollbackMigration(ctx, db, *version); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Printf("Rolled back migration %d", *version)
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
		fmt.Printf("Mode:        %s\n", status.Mode)
		fmt.Printf("Environment: %s\n", status.Environment)
		fmt.Printf("Applied:     %v\n", status.AppliedVersions)
		for _, m := range status.PendingMigrations {
			fmt.Printf("Pending:     %d %s\n", m.Version, m.Name)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
