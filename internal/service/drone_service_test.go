package service

import (
	"context"
	"math"
	"testing"

	"skyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDroneInput() CreateDroneInput {
	return CreateDroneInput{
		SellerID:    4,
		Name:        "Falcon",
		Model:       "FX-1",
		Price:       450,
		Description: "Quadcopter with gimbal",
		Type:        "venta",
		Condition:   "usado",
		Location:    "Madrid",
		Contact:     "falcon@example.com",
		Category:    "camera",
	}
}

func TestDroneServiceCreate(t *testing.T) {
	svc := NewDroneService(noopDroneRepo(4), &reviewRepoStub{}, noopUserRepo(), nil)

	d, err := svc.Create(context.Background(), validDroneInput())
	require.NoError(t, err)
	assert.Equal(t, uint(4), d.SellerID)
	assert.Equal(t, models.DroneTypeSale, d.Type)
	assert.Equal(t, models.DroneConditionUsed, d.Condition)
	assert.NotNil(t, d.Images)

	bad := []func(*CreateDroneInput){
		func(in *CreateDroneInput) { in.Name = " " },
		func(in *CreateDroneInput) { in.Category = "" },
		func(in *CreateDroneInput) { in.Price = 0 },
		func(in *CreateDroneInput) { in.Type = "lease" },
		func(in *CreateDroneInput) { in.Condition = "broken" },
	}
	for _, mutate := range bad {
		in := validDroneInput()
		mutate(&in)
		_, err := svc.Create(context.Background(), in)
		assertValidationError(t, err)
	}
}

func TestDroneServiceOwnership(t *testing.T) {
	repo := noopDroneRepo(4)
	var deleted uint
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewDroneService(repo, &reviewRepoStub{}, noopUserRepo(), nil)
	ctx := context.Background()
	price := 999.0

	_, err := svc.Update(ctx, UpdateDroneInput{CallerID: 5, DroneID: 1, Name: "Stolen"})
	assertCode(t, err, models.CodeForbidden)
	assertCode(t, svc.Delete(ctx, 5, 1), models.CodeForbidden)
	assert.Zero(t, deleted)

	d, err := svc.Update(ctx, UpdateDroneInput{CallerID: 4, DroneID: 1, Name: "Renamed", Price: &price, Type: "alquiler"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", d.Name)
	assert.Equal(t, 999.0, d.Price)
	assert.Equal(t, models.DroneTypeRental, d.Type)

	_, err = svc.Update(ctx, UpdateDroneInput{CallerID: 4, DroneID: 1, Condition: "broken"})
	assertValidationError(t, err)

	require.NoError(t, svc.Delete(ctx, 4, 1))
	assert.Equal(t, uint(1), deleted)
}

func TestDroneServiceMissingDrone(t *testing.T) {
	repo := noopDroneRepo(4)
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Drone, error) {
		return nil, models.NewNotFoundError("Drone", id)
	}
	svc := NewDroneService(repo, &reviewRepoStub{}, noopUserRepo(), nil)

	_, err := svc.Update(context.Background(), UpdateDroneInput{CallerID: 4, DroneID: 8})
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.AddReview(context.Background(), AddReviewInput{DroneID: 8, UserID: 2, Rating: 3, Comment: "ok"})
	assertCode(t, err, models.CodeNotFound)
}

func TestDroneServicePriceRangeValidation(t *testing.T) {
	var gotMin, gotMax float64
	repo := noopDroneRepo(4)
	repo.listByPriceRangeFn = func(_ context.Context, minPrice, maxPrice float64) ([]models.Drone, error) {
		gotMin, gotMax = minPrice, maxPrice
		return []models.Drone{}, nil
	}
	svc := NewDroneService(repo, &reviewRepoStub{}, noopUserRepo(), nil)
	ctx := context.Background()

	_, err := svc.ListByPriceRange(ctx, 200, 100)
	assertValidationError(t, err)
	_, err = svc.ListByPriceRange(ctx, -1, 100)
	assertValidationError(t, err)
	_, err = svc.ListByPriceRange(ctx, math.NaN(), 100)
	assertValidationError(t, err)
	_, err = svc.ListByPriceRange(ctx, 0, math.Inf(1))
	assertValidationError(t, err)

	drones, err := svc.ListByPriceRange(ctx, 100, 200)
	require.NoError(t, err)
	assert.Empty(t, drones)
	assert.NotNil(t, drones)
	assert.Equal(t, 100.0, gotMin)
	assert.Equal(t, 200.0, gotMax)
}

func TestDroneServiceReviewRating(t *testing.T) {
	reviews := &reviewRepoStub{}
	svc := NewDroneService(noopDroneRepo(4), reviews, noopUserRepo(), nil)
	ctx := context.Background()

	for _, rating := range []int{0, 6} {
		_, err := svc.AddReview(ctx, AddReviewInput{DroneID: 1, UserID: 2, Rating: rating, Comment: "meh"})
		assertValidationError(t, err)
	}
	_, err := svc.AddReview(ctx, AddReviewInput{DroneID: 1, UserID: 2, Rating: 3, Comment: "  "})
	assertValidationError(t, err)

	for _, rating := range []int{1, 5} {
		_, err := svc.AddReview(ctx, AddReviewInput{DroneID: 1, UserID: 2, Rating: rating, Comment: "solid"})
		require.NoError(t, err)
	}
	require.Len(t, reviews.created, 2)
	assert.Equal(t, 1, reviews.created[0].Rating)
	assert.Equal(t, 5, reviews.created[1].Rating)
}

func TestDroneServiceReviewRequiresActiveUser(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewDroneService(noopDroneRepo(4), &reviewRepoStub{}, users, nil)

	_, err := svc.AddReview(context.Background(), AddReviewInput{DroneID: 1, UserID: 2, Rating: 4, Comment: "nice"})
	assertCode(t, err, models.CodeNotFound)
}
