package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docuhub-backend/internal/shared/apperr"
	"docuhub-backend/internal/shared/auth"
	"docuhub-backend/internal/shared/telemetry"
)

const minPasswordLength = 6

// RegisterInput carries a signup request.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	Position   string
}

// Service implements registration, login and profile management.
type Service struct {
	Repo      Repo
	JWTSecret string
	TokenTTL  time.Duration
}

func NewService(repo Repo, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{Repo: repo, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

// Register creates an account and returns the user with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", apperr.ErrValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, "", fmt.Errorf("%w: email is not valid", apperr.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Department:   strings.TrimSpace(in.Department),
		Position:     strings.TrimSpace(in.Position),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.sign(u)
	if err != nil {
		return nil, "", err
	}

	telemetry.Info("user.registered", map[string]any{"userId": u.ID})
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", apperr.ErrValidation)
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		// A missing account gets the same answer as a wrong password.
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	if err := s.Repo.TouchLastLogin(ctx, u.ID); err != nil {
		telemetry.Warn("user.last_login_update_failed", map[string]any{
			"userId": u.ID,
			"error":  err.Error(),
		})
	}

	token, err := s.sign(u)
	if err != nil {
		return nil, "", err
	}

	telemetry.Info("user.logged_in", map[string]any{"userId": u.ID})
	return u, token, nil
}

// Profile returns the account for the given id.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateProfile applies the provided profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperr.ErrValidation)
	}
	return s.Repo.UpdateProfile(ctx, id, in)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", apperr.ErrValidation, minPasswordLength)
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", apperr.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Repo.UpdatePassword(ctx, id, string(hash))
}

func (s *Service) sign(u *User) (string, error) {
	token, err := auth.Sign(s.JWTSecret, auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}, s.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
