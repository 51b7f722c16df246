package seed

import (
	"fmt"
	"log"

	"skyhub/internal/database"
	"skyhub/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users          int
	DronesPerUser  int
	ReviewsPerUser int
	ForumEntries   int
	Clean          bool
	// Seed makes gofakeit output reproducible; 0 picks one from the clock.
	Seed     int64
	HashCost int
}

// Summary counts what a run created.
type Summary struct {
	Users, Drones, Reviews, ForumEntries, Messages int
}

// Run seeds db according to opts.
func Run(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Users < 2 {
		return nil, fmt.Errorf("need at least 2 users, got %d", opts.Users)
	}
	if opts.Clean {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(db, opts.Seed, opts.HashCost)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	var drones []*models.Drone
	for _, u := range users {
		created, err := f.CreateDrones(u, opts.DronesPerUser)
		if err != nil {
			return nil, err
		}
		drones = append(drones, created...)
	}
	sum.Drones = len(drones)

	if len(drones) > 0 {
		for i, u := range users {
			for j := 0; j < opts.ReviewsPerUser; j++ {
				d := drones[(i*opts.ReviewsPerUser+j)%len(drones)]
				if d.SellerID == u.ID {
					continue
				}
				if _, err := f.CreateReview(d, u); err != nil {
					return nil, err
				}
				sum.Reviews++
			}
		}
	}

	for i := 0; i < opts.ForumEntries; i++ {
		if _, err := f.CreateForumEntry(users[i%len(users)]); err != nil {
			return nil, err
		}
		sum.ForumEntries++
	}

	// a short thread between neighbours
	for i := 0; i+1 < len(users); i += 2 {
		if _, err := f.CreateMessage(users[i], users[i+1]); err != nil {
			return nil, err
		}
		if _, err := f.CreateMessage(users[i+1], users[i]); err != nil {
			return nil, err
		}
		sum.Messages += 2
	}

	log.Printf("seeded %d users, %d drones, %d reviews, %d forum entries, %d messages",
		sum.Users, sum.Drones, sum.Reviews, sum.ForumEntries, sum.Messages)
	return sum, nil
}

// ClearAll hard-deletes every row, children first.
func ClearAll(db *gorm.DB) error {
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	return nil
}
