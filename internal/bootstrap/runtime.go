// Package bootstrap prepares the database and Redis handles the binaries share.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"skyhub/internal/cache"
	"skyhub/internal/config"
	"skyhub/internal/database"
	"skyhub/internal/models"
	"skyhub/internal/seed"
	"skyhub/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const devAdminUsername = "skyhub_admin"

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty database with demo data.
	SeedDemo bool
}

// InitRuntime connects to the database and Redis, ensures the development
// admin and optionally seeds demo data. The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if err := ensureDevAdmin(cfg, db, bcrypt.DefaultCost); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedDemo {
		var count int64
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			return nil, nil, err
		}
		if count <= 1 {
			if _, err := seed.Run(db, seed.Options{Users: 10, DronesPerUser: 2, ReviewsPerUser: 2, ForumEntries: 5}); err != nil {
				return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
		}
	}

	return db, rdb, nil
}

// ensureDevAdmin creates or promotes the configured admin account in development.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB, cost int) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := validation.NormalizeEmail(cfg.DevAdminEmail)
	if email == "" {
		email = "admin@skyhub.local"
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}
	if err := validation.ValidatePassword(cfg.DevAdminPassword); err != nil {
		return fmt.Errorf("DEV_ADMIN_PASSWORD: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username: devAdminUsername,
				Email:    email,
				Password: string(hashed),
				Role:     models.RoleAdmin,
			}
			return tx.Create(&admin).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&admin).Updates(map[string]any{
				"role":     models.RoleAdmin,
				"password": string(hashed),
			}).Error
		}
	})
	if err != nil {
		return err
	}

	log.Printf("development admin ensured (%s)", email)
	return nil
}
