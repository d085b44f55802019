// Command main runs the database seeder for Agora.
package main

import (
	"flag"
	"log"

	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeder, err := seed.NewSeeder(db)
	if err != nil {
		log.Fatalf("Failed to create seeder: %v", err)
	}

	users, err := seeder.Run(seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users; sample login: %s / %s",
		len(users), users[0].Email, seed.DefaultPassword)
}
