package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"track_swiftly/internal/auth"
	"track_swiftly/internal/models"
	"track_swiftly/internal/repository"
)

const minPasswordLength = 6

var validate = validator.New()

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
	Phone    *string
}

// AuthService verifies credentials and issues bearer tokens.
type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
}

func NewAuthService(users UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and returns it with a fresh token. An empty
// role registers a customer.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}

	verr := &ValidationError{}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		verr.Add("email", "Valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if in.Name == "" {
		verr.Add("name", "Name is required")
	}
	if !in.Role.Valid() {
		verr.Add("role", "Invalid role")
	}
	checkPhone(verr, in.Phone)
	if err := verr.orNil(); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     in.Role,
		Phone:    in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", fmt.Errorf("email already in use: %w", ErrConflict)
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, token, nil
}

// Login checks the credentials. Unknown email and wrong password fail the
// same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its current account. Tokens of
// deleted accounts are invalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
