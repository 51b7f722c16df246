package service

import (
	"context"
	"testing"

	"skyhub/internal/featureflags"
	"skyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func usersWithAdmin(adminID uint) *userRepoStub {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		u := &models.User{ID: id, Username: "pilot", Email: "pilot@example.com", Role: models.RoleUser}
		if id == adminID {
			u.Role = models.RoleAdmin
		}
		return u, nil
	}
	return repo
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, size, limit, offset int
	}{
		{0, 0, 10, 0},
		{1, 10, 10, 0},
		{2, 10, 10, 10},
		{3, 10, 10, 20},
		{-4, 5, 5, 0},
		{2, 500, 100, 100},
	}
	for _, tc := range cases {
		limit, offset := PageOffset(tc.page, tc.size)
		assert.Equal(t, tc.limit, limit, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, tc.offset, offset, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestUserServiceUpdateAuthorization(t *testing.T) {
	svc := NewUserService(usersWithAdmin(1), noopDroneRepo(1), noopFavoriteRepo(), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateUserInput{CallerID: 2, TargetID: 3, Username: "hijack"})
	assertCode(t, err, models.CodeForbidden)

	_, err = svc.Update(ctx, UpdateUserInput{TargetID: 3, Username: "anon"})
	assertCode(t, err, models.CodeUnauthenticated)

	u, err := svc.Update(ctx, UpdateUserInput{CallerID: 3, TargetID: 3, Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", u.Username)

	u, err = svc.Update(ctx, UpdateUserInput{CallerID: 1, TargetID: 3, Username: "by_admin"})
	require.NoError(t, err)
	assert.Equal(t, "by_admin", u.Username)
}

func TestUserServiceUpdateRoleIsAdminOnly(t *testing.T) {
	svc := NewUserService(usersWithAdmin(1), noopDroneRepo(1), noopFavoriteRepo(), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateUserInput{CallerID: 3, TargetID: 3, Role: "admin"})
	assertCode(t, err, models.CodeForbidden)

	u, err := svc.Update(ctx, UpdateUserInput{CallerID: 1, TargetID: 3, Role: "empresa"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompany, u.Role)

	_, err = svc.Update(ctx, UpdateUserInput{CallerID: 1, TargetID: 3, Role: "pilot"})
	assertValidationError(t, err)
}

func TestUserServiceUpdatePasswordAndFields(t *testing.T) {
	repo := usersWithAdmin(0)
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo, noopDroneRepo(1), noopFavoriteRepo(), nil).WithHashCost(bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateUserInput{CallerID: 4, TargetID: 4, Password: "weak"})
	assertValidationError(t, err)
	assert.Nil(t, saved)

	_, err = svc.Update(ctx, UpdateUserInput{
		CallerID: 4, TargetID: 4,
		Email:    "New@Example.com",
		Password: "N3wPass!word",
		Friends:  []uint{5, 6},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "new@example.com", saved.Email)
	assert.Equal(t, models.IDList{5, 6}, saved.Friends)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("N3wPass!word")))
}

func TestUserServiceSoftDeleteCascadeFlag(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		favorites := noopFavoriteRepo()
		var cleared []uint
		favorites.deleteByUserFn = func(_ context.Context, userID uint) (int64, error) {
			cleared = append(cleared, userID)
			return 2, nil
		}
		repo := noopUserRepo()
		var deleted uint
		repo.softDeleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		flags := flagStub{featureflags.CascadeSoftDelete: enabled}
		svc := NewUserService(repo, noopDroneRepo(1), favorites, flags)

		require.NoError(t, svc.SoftDelete(context.Background(), 9, 9))
		assert.Equal(t, uint(9), deleted)
		if enabled {
			assert.Equal(t, []uint{9}, cleared)
		} else {
			assert.Empty(t, cleared)
		}
	}
}

func TestUserServiceSoftDeleteRequiresOwnerOrAdmin(t *testing.T) {
	svc := NewUserService(usersWithAdmin(1), noopDroneRepo(1), noopFavoriteRepo(), nil)

	err := svc.SoftDelete(context.Background(), 2, 3)
	assertCode(t, err, models.CodeForbidden)

	require.NoError(t, svc.SoftDelete(context.Background(), 1, 3))
}

func TestUserServiceFavorites(t *testing.T) {
	favorites := noopFavoriteRepo()
	var added [][2]uint
	favorites.addFn = func(_ context.Context, userID, droneID uint) error {
		added = append(added, [2]uint{userID, droneID})
		return nil
	}
	drones := noopDroneRepo(1)
	drones.getByIDFn = func(_ context.Context, id uint) (*models.Drone, error) {
		if id == 404 {
			return nil, models.NewNotFoundError("Drone", id)
		}
		return &models.Drone{ID: id, SellerID: 1}, nil
	}
	svc := NewUserService(noopUserRepo(), drones, favorites, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, 5, 5, 11))
	assert.Equal(t, [][2]uint{{5, 11}}, added)

	assertCode(t, svc.AddFavorite(ctx, 6, 5, 11), models.CodeForbidden)
	assertCode(t, svc.AddFavorite(ctx, 5, 5, 404), models.CodeNotFound)
	assertCode(t, svc.RemoveFavorite(ctx, 5, 5, 404), models.CodeNotFound)
	require.NoError(t, svc.RemoveFavorite(ctx, 5, 5, 11))
}

func TestUserServiceSetRole(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopDroneRepo(1), noopFavoriteRepo(), nil)

	u, err := svc.SetRole(context.Background(), 2, "gobierno")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGovernment, u.Role)

	_, err = svc.SetRole(context.Background(), 2, "root")
	assertValidationError(t, err)
}
