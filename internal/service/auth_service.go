// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context"
	"strings"

	"socialhub/internal/auth"
	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	policy   validation.PasswordPolicy
	hashCost int
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult is a freshly issued token and the account it belongs to.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *models.User
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, policy validation.PasswordPolicy) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		policy:   policy,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.Signup")
	defer func() {
		end(err)
		recordAuthAttempt("signup", err)
	}()

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password, s.policy); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Passwords do not match")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}
	existing, err = s.users.GetByUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username: name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (result *LoginResult, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.Login")
	defer func() {
		end(err)
		recordAuthAttempt("login", err)
	}()

	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, models.NewValidationError("Email/username and password are required")
	}

	user, err := s.users.GetByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByUsername(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expiry().Seconds()),
		User:      user,
	}, nil
}

func recordAuthAttempt(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "rejected"
		if models.AsAppError(err).Code == models.CodeInternal {
			outcome = "error"
		}
	}
	observability.AuthAttempts.WithLabelValues(action, outcome).Inc()
}
