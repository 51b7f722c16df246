// Command seed fills the configured database with demo marketplace data.
package main

import (
	"flag"
	"log"

	"skyhub/internal/config"
	"skyhub/internal/database"
	"skyhub/internal/seed"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	drones := flag.Int("drones", 3, "listings per user")
	reviews := flag.Int("reviews", 2, "reviews written per user")
	forum := flag.Int("forum", 10, "forum entries")
	clean := flag.Bool("clean", false, "delete all rows before seeding")
	fakerSeed := flag.Int64("seed", 0, "faker seed (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sum, err := seed.Run(db, seed.Options{
		Users:          *users,
		DronesPerUser:  *drones,
		ReviewsPerUser: *reviews,
		ForumEntries:   *forum,
		Clean:          *clean,
		Seed:           *fakerSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d drones. All seeded users share the password %q",
		sum.Users, sum.Drones, seed.DefaultPassword)
}
