package service

import (
	"context"
	"strings"

	"skyhub/internal/featureflags"
	"skyhub/internal/models"
	"skyhub/internal/observability"
	"skyhub/internal/repository"
	"skyhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo     repository.UserRepository
	droneRepo    repository.DroneRepository
	favoriteRepo repository.FavoriteRepository
	flags        Flags
	cost         int
}

// UpdateUserInput carries a partial update. Empty strings and a nil Friends
// slice leave the stored value untouched.
type UpdateUserInput struct {
	CallerID uint
	TargetID uint
	Username string
	Email    string
	Password string
	Friends  []uint
	Role     string
}

func NewUserService(
	userRepo repository.UserRepository,
	droneRepo repository.DroneRepository,
	favoriteRepo repository.FavoriteRepository,
	flags Flags,
) *UserService {
	if flags == nil {
		flags = noFlags{}
	}
	return &UserService{
		userRepo:     userRepo,
		droneRepo:    droneRepo,
		favoriteRepo: favoriteRepo,
		flags:        flags,
		cost:         bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost used for password changes.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

func (s *UserService) List(ctx context.Context, page, size int) ([]models.User, error) {
	limit, offset := PageOffset(page, size)
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// authorizeOwnerOrAdmin loads the caller and allows the call when it targets
// the caller's own account or the caller is an admin.
func (s *UserService) authorizeOwnerOrAdmin(ctx context.Context, callerID, targetID uint) (*models.User, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, models.NewUnauthenticatedError("Caller account no longer exists")
		}
		return nil, err
	}
	if callerID != targetID && !caller.IsAdmin() {
		return nil, models.NewForbiddenError("You can only modify your own account")
	}
	return caller, nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "users", "update", attribute.Int("user.id", int(in.TargetID)))
	defer func() { span.End(err) }()

	caller, err := s.authorizeOwnerOrAdmin(ctx, in.CallerID, in.TargetID)
	if err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetByIDForUpdate(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(in.Username); username != "" {
		if vErr := validation.ValidateUsername(username); vErr != nil {
			return nil, models.NewValidationError(vErr.Error())
		}
		user.Username = username
	}
	if email := validation.NormalizeEmail(in.Email); email != "" {
		if vErr := validation.ValidateEmail(email); vErr != nil {
			return nil, models.NewValidationError(vErr.Error())
		}
		user.Email = email
	}
	if in.Password != "" {
		if vErr := validation.ValidatePassword(in.Password); vErr != nil {
			return nil, models.NewValidationError(vErr.Error())
		}
		hash, hErr := hashPassword(in.Password, s.cost)
		if hErr != nil {
			return nil, hErr
		}
		user.Password = hash
	}
	if in.Friends != nil {
		user.Friends = models.IDList(in.Friends)
	}
	if in.Role != "" {
		role, ok := models.ParseRole(in.Role)
		if !ok {
			return nil, models.NewValidationError("Invalid role")
		}
		if role != user.Role && !caller.IsAdmin() {
			return nil, models.NewForbiddenError("Only admins can change roles")
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SoftDelete deactivates an account. Listings, messages and orders are kept.
// With cascade_soft_delete on, the user's favorites are removed as well.
func (s *UserService) SoftDelete(ctx context.Context, callerID, id uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "users", "soft_delete", attribute.Int("user.id", int(id)))
	defer func() { span.End(err) }()

	if _, err := s.authorizeOwnerOrAdmin(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if s.flags.Enabled(featureflags.CascadeSoftDelete, id) {
		if _, err := s.favoriteRepo.DeleteByUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Restore reactivates a soft-deleted account.
func (s *UserService) Restore(ctx context.Context, id uint) (*models.User, error) {
	if err := s.userRepo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// SetRole assigns a role without an ownership check. It backs the admin CLI.
func (s *UserService) SetRole(ctx context.Context, id uint, roleName string) (*models.User, error) {
	role, ok := models.ParseRole(roleName)
	if !ok {
		return nil, models.NewValidationError("Invalid role")
	}
	user, err := s.userRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) favoritePreconditions(ctx context.Context, callerID, userID, droneID uint) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if callerID != userID {
		return models.NewForbiddenError("You can only manage your own favorites")
	}
	if _, err := s.droneRepo.GetByID(ctx, droneID); err != nil {
		return err
	}
	return nil
}

// AddFavorite is idempotent.
func (s *UserService) AddFavorite(ctx context.Context, callerID, userID, droneID uint) error {
	if err := s.favoritePreconditions(ctx, callerID, userID, droneID); err != nil {
		return err
	}
	return s.favoriteRepo.Add(ctx, userID, droneID)
}

// RemoveFavorite is a no-op when the drone is not a favorite.
func (s *UserService) RemoveFavorite(ctx context.Context, callerID, userID, droneID uint) error {
	if err := s.favoritePreconditions(ctx, callerID, userID, droneID); err != nil {
		return err
	}
	return s.favoriteRepo.Remove(ctx, userID, droneID)
}

func (s *UserService) ListFavorites(ctx context.Context, userID uint) ([]models.Drone, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.favoriteRepo.ListDrones(ctx, userID)
}
