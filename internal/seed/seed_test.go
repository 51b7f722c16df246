package seed

import (
	"testing"

	"skyhub/internal/database"
	"skyhub/internal/models"
	"skyhub/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestRunCreatesConsistentData(t *testing.T) {
	db := testDB(t)

	sum, err := Run(db, Options{
		Users:          6,
		DronesPerUser:  2,
		ReviewsPerUser: 2,
		ForumEntries:   3,
		Seed:           42,
		HashCost:       bcrypt.MinCost,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Users)
	assert.Equal(t, 12, sum.Drones)
	assert.Equal(t, 3, sum.ForumEntries)
	assert.Equal(t, 6, sum.Messages)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.NoError(t, validation.ValidateUsername(u.Username), u.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))
	}

	var selfReviews int64
	require.NoError(t, db.Table("reviews").
		Joins("JOIN drones ON drones.id = reviews.drone_id").
		Where("drones.seller_id = reviews.user_id").
		Count(&selfReviews).Error)
	assert.Zero(t, selfReviews)

	var reviews int64
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	assert.Equal(t, int64(sum.Reviews), reviews)
}

func TestRunClean(t *testing.T) {
	db := testDB(t)
	opts := Options{Users: 2, DronesPerUser: 1, HashCost: bcrypt.MinCost}

	_, err := Run(db, opts)
	require.NoError(t, err)
	opts.Clean = true
	_, err = Run(db, opts)
	require.NoError(t, err)

	var users, drones int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Drone{}).Count(&drones).Error)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(2), drones)
}

func TestRunRejectsTooFewUsers(t *testing.T) {
	_, err := Run(testDB(t), Options{Users: 1})
	assert.Error(t, err)
}

func TestUsernameLength(t *testing.T) {
	f, err := NewFactory(testDB(t), 7, bcrypt.MinCost)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.NoError(t, validation.ValidateUsername(f.username()))
	}
}
