// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	numComments := flag.Int("comments", 200, "Number of comments to create")
	shouldClean := flag.Bool("clean", false, "Remove existing users and content first")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db.Init(cfg)

	s := seed.New(db.DB, *seedValue)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if _, err := s.Run(context.Background(), seed.Options{
		Users:    *numUsers,
		Posts:    *numPosts,
		Comments: *numComments,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
