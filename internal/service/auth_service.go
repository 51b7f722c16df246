package service

import (
	"context"
	"errors"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/observability"
	"skyhub/internal/repository"
	"skyhub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID uint, username string) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	cost     int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by both Register and Authenticate.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "auth", "register")
	defer func() { span.End(err) }()

	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if vErr := validation.ValidateUsername(username); vErr != nil {
		return nil, models.NewValidationError(vErr.Error())
	}
	if vErr := validation.ValidateEmail(email); vErr != nil {
		return nil, models.NewValidationError(vErr.Error())
	}
	if vErr := validation.ValidatePassword(in.Password); vErr != nil {
		return nil, models.NewValidationError(vErr.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateEmailError()
	}
	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateUsernameError()
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.SignupsTotal.Inc()

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate checks credentials against active accounts. A soft-deleted
// account is reported as not found even when the password matches.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "auth", "authenticate")
	defer func() { span.End(err) }()

	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginFailuresTotal.WithLabelValues("unknown_email").Inc()
		return nil, models.NewNotFoundError("User", email)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		observability.LoginFailuresTotal.WithLabelValues("bad_password").Inc()
		return nil, models.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", models.NewValidationError("password is too long")
		}
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}
