package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"skyhub/internal/cache"
	"skyhub/internal/database"
	"skyhub/internal/models"
	"skyhub/internal/repository"
	"skyhub/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*service.UserService, *miniredis.Miniredis, models.User) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(client)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = client.Close()
	})

	user := models.User{Username: "pilot", Email: "pilot@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	users := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewDroneRepository(db),
		repository.NewFavoriteRepository(db),
		nil,
	)
	return users, mr, user
}

func TestSetRoleEvictsCachedUser(t *testing.T) {
	users, mr, user := setup(t)
	ctx := context.Background()

	_, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserKey(user.ID)))

	var out bytes.Buffer
	require.NoError(t, runCommand(ctx, users, []string{"set-role", fmt.Sprint(user.ID), "admin"}, &out))
	assert.Contains(t, out.String(), "is now admin")
	assert.False(t, mr.Exists(cache.UserKey(user.ID)))

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestRestoreEvictsCachedUser(t *testing.T) {
	users, mr, user := setup(t)
	ctx := context.Background()

	require.NoError(t, users.SoftDelete(ctx, user.ID, user.ID))
	_, err := users.Get(ctx, user.ID)
	require.Error(t, err)

	var out bytes.Buffer
	require.NoError(t, runCommand(ctx, users, []string{"restore", fmt.Sprint(user.ID)}, &out))
	assert.Contains(t, out.String(), "Restored pilot")

	_, err = users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.UserKey(user.ID)))
}

func TestRunCommandUsageErrors(t *testing.T) {
	users, _, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, runCommand(ctx, users, []string{"set-role", "1"}, &bytes.Buffer{}), errUsage)
	assert.ErrorIs(t, runCommand(ctx, users, []string{"nuke"}, &bytes.Buffer{}), errUsage)
	assert.Error(t, runCommand(ctx, users, []string{"restore", "abc"}, &bytes.Buffer{}))
}
