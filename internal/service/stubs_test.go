package service

import (
	"context"
	"errors"
	"testing"

	"skyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByIDForUpdate  func(context.Context, uint) (*models.User, error)
	getByIDUnscopedFn func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	softDeleteFn      func(context.Context, uint) error
	restoreFn         func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	countFn           func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

// GetByIDForUpdate falls back to getByIDFn when no dedicated stub is set.
func (s *userRepoStub) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDForUpdate != nil {
		return s.getByIDForUpdate(ctx, id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDUnscoped(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDUnscopedFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *userRepoStub) Restore(ctx context.Context, id uint) error {
	return s.restoreFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

// noopUserRepo resolves every ID to a plain user with that ID and reports
// no existing email or username.
func noopUserRepo() *userRepoStub {
	byID := func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "pilot", Role: models.RoleUser}, nil
	}
	return &userRepoStub{
		getByIDFn:         byID,
		getByIDUnscopedFn: byID,
		getByEmailFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:          func(context.Context, *models.User) error { return nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
		softDeleteFn:      func(context.Context, uint) error { return nil },
		restoreFn:         func(context.Context, uint) error { return nil },
		listFn:            func(context.Context, int, int) ([]models.User, error) { return []models.User{}, nil },
		countFn:           func(context.Context) (int64, error) { return 0, nil },
	}
}

type droneRepoStub struct {
	createFn           func(context.Context, *models.Drone) error
	getByIDFn          func(context.Context, uint) (*models.Drone, error)
	getByLegacyIDFn    func(context.Context, uint) (*models.Drone, error)
	listFn             func(context.Context, int, int) ([]models.Drone, error)
	listByCategoryFn   func(context.Context, string) ([]models.Drone, error)
	listByPriceRangeFn func(context.Context, float64, float64) ([]models.Drone, error)
	listBySellerFn     func(context.Context, uint) ([]models.Drone, error)
	updateFn           func(context.Context, *models.Drone) error
	deleteFn           func(context.Context, uint) error
}

func (s *droneRepoStub) Create(ctx context.Context, drone *models.Drone) error {
	return s.createFn(ctx, drone)
}
func (s *droneRepoStub) GetByID(ctx context.Context, id uint) (*models.Drone, error) {
	return s.getByIDFn(ctx, id)
}
func (s *droneRepoStub) GetByLegacyID(ctx context.Context, legacyID uint) (*models.Drone, error) {
	return s.getByLegacyIDFn(ctx, legacyID)
}
func (s *droneRepoStub) List(ctx context.Context, limit, offset int) ([]models.Drone, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *droneRepoStub) ListByCategory(ctx context.Context, category string) ([]models.Drone, error) {
	return s.listByCategoryFn(ctx, category)
}
func (s *droneRepoStub) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Drone, error) {
	return s.listByPriceRangeFn(ctx, minPrice, maxPrice)
}
func (s *droneRepoStub) ListBySeller(ctx context.Context, sellerID uint) ([]models.Drone, error) {
	return s.listBySellerFn(ctx, sellerID)
}
func (s *droneRepoStub) Update(ctx context.Context, drone *models.Drone) error {
	return s.updateFn(ctx, drone)
}
func (s *droneRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// noopDroneRepo resolves every ID to a drone sold by sellerID.
func noopDroneRepo(sellerID uint) *droneRepoStub {
	none := func(context.Context, uint) ([]models.Drone, error) { return []models.Drone{}, nil }
	return &droneRepoStub{
		createFn: func(_ context.Context, d *models.Drone) error {
			d.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Drone, error) {
			return &models.Drone{ID: id, SellerID: sellerID, Price: 100, Type: models.DroneTypeSale, Condition: models.DroneConditionNew, Reviews: []models.Review{}}, nil
		},
		getByLegacyIDFn:    func(_ context.Context, id uint) (*models.Drone, error) { return nil, models.NewNotFoundError("Drone", id) },
		listFn:             func(context.Context, int, int) ([]models.Drone, error) { return []models.Drone{}, nil },
		listByCategoryFn:   func(context.Context, string) ([]models.Drone, error) { return []models.Drone{}, nil },
		listByPriceRangeFn: func(context.Context, float64, float64) ([]models.Drone, error) { return []models.Drone{}, nil },
		listBySellerFn:     none,
		updateFn:           func(context.Context, *models.Drone) error { return nil },
		deleteFn:           func(context.Context, uint) error { return nil },
	}
}

type reviewRepoStub struct {
	created []models.Review
}

func (s *reviewRepoStub) Create(_ context.Context, review *models.Review) error {
	review.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *review)
	return nil
}
func (s *reviewRepoStub) ListByDrone(context.Context, uint) ([]models.Review, error) {
	return s.created, nil
}

type favoriteRepoStub struct {
	addFn          func(context.Context, uint, uint) error
	removeFn       func(context.Context, uint, uint) error
	listDronesFn   func(context.Context, uint) ([]models.Drone, error)
	deleteByUserFn func(context.Context, uint) (int64, error)
}

func (s *favoriteRepoStub) Add(ctx context.Context, userID, droneID uint) error {
	return s.addFn(ctx, userID, droneID)
}
func (s *favoriteRepoStub) Remove(ctx context.Context, userID, droneID uint) error {
	return s.removeFn(ctx, userID, droneID)
}
func (s *favoriteRepoStub) ListDrones(ctx context.Context, userID uint) ([]models.Drone, error) {
	return s.listDronesFn(ctx, userID)
}
func (s *favoriteRepoStub) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	return s.deleteByUserFn(ctx, userID)
}

func noopFavoriteRepo() *favoriteRepoStub {
	return &favoriteRepoStub{
		addFn:          func(context.Context, uint, uint) error { return nil },
		removeFn:       func(context.Context, uint, uint) error { return nil },
		listDronesFn:   func(context.Context, uint) ([]models.Drone, error) { return []models.Drone{}, nil },
		deleteByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type orderRepoStub struct {
	order   *models.Order
	created *models.Order
	updated models.OrderStatus
}

func (s *orderRepoStub) Create(_ context.Context, order *models.Order) error {
	order.ID = 1
	s.created = order
	return nil
}
func (s *orderRepoStub) GetByID(_ context.Context, id uint) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, models.NewNotFoundError("Order", id)
	}
	cp := *s.order
	return &cp, nil
}
func (s *orderRepoStub) ListByBuyer(context.Context, uint) ([]models.Order, error) {
	return []models.Order{}, nil
}
func (s *orderRepoStub) UpdateStatus(_ context.Context, _ uint, status models.OrderStatus) error {
	s.updated = status
	return nil
}

type tokenStub struct {
	err error
}

func (s tokenStub) Issue(userID uint, username string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + username, nil
}

type flagStub map[string]bool

func (f flagStub) Enabled(name string, _ uint) bool {
	return f[name]
}

type publisherStub struct {
	userIDs []uint
	types   []string
	err     error
}

func (p *publisherStub) PublishEvent(_ context.Context, userID uint, eventType string, _ any) error {
	p.userIDs = append(p.userIDs, userID)
	p.types = append(p.types, eventType)
	return p.err
}

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
