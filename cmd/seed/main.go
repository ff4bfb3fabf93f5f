// Command seed populates the database with demo users, posts, and comments.
package main

import (
	"flag"
	"log"

	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	posts := flag.Int("posts", 40, "number of posts to create")
	days := flag.Int("days", 90, "spread created timestamps over the last N days")
	clean := flag.Bool("clean", false, "truncate existing content before seeding")
	dryRun := flag.Bool("dry-run", false, "report what would be created without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:    *users,
		NumPosts:    *posts,
		MaxDays:     *days,
		ShouldClean: *clean,
		DryRun:      *dryRun,
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if err := seed.Pages(db, cfg.SeedPagesFile); err != nil {
		log.Fatalf("Page seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
