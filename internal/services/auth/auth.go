// Package services contains the business-level logic for accounts and
// authentication.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/jwt"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/password"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/random"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/lib/sl"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/models"
	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/storage"
)

// Service-level errors mapped to HTTP statuses by the handlers.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email is not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const verificationTokenBytes = 32

// UserRepository describes the contract for account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUnverifiedCredentials(ctx context.Context, id, passwordHash, verificationToken string) error
	VerifyByToken(ctx context.Context, token string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

// Mailer sends account emails. Errors from it abort the calling operation.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

// AuthService handles registration, email verification, login and password
// reset.
type AuthService struct {
	users    UserRepository
	mailer   Mailer
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users UserRepository, mailer Mailer, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		mailer:   mailer,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register creates an unverified user and sends the verification email.
// The user record only survives if the email leaves the building: a send
// failure rolls the record back so the address can register again later.
//
// Re-registering an email that exists but was never verified reissues the
// credentials and token instead of failing, since the old record is
// unreachable without its emailed token.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string) error {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	token, err := random.Token(verificationTokenBytes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var userID string
	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.Verified:
		return ErrUserExists
	case err == nil:
		if err = s.users.UpdateUnverifiedCredentials(ctx, existing.ID, hashed, token); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		userID = existing.ID
	case errors.Is(err, storage.ErrUserNotFound):
		user := models.User{
			Email:             email,
			PasswordHash:      hashed,
			Verified:          false,
			VerificationToken: &token,
		}
		userID, err = s.users.CreateUser(ctx, user)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return ErrUserExists
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.mailer.SendVerificationEmail(email, token); err != nil {
		s.log.Error("verification email failed, rolling back user",
			slog.String("op", op), slog.String("email", email), sl.Err(err))
		if delErr := s.users.DeleteUser(ctx, userID); delErr != nil {
			s.log.Error("rollback delete failed", slog.String("op", op),
				slog.String("user_id", userID), sl.Err(delErr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerifyEmail consumes a verification token, marking the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"

	if _, err := s.users.VerifyByToken(ctx, token); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login checks the password for a verified account and mints a session token.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", storage.ErrUserNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Verified {
		return "", ErrNotVerified
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, jwt.TokenUseAccess)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken checks a session token and returns its claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtMaker.ParseToken(token, jwt.TokenUseAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ForgotPassword emails a reset token to an existing account. An unknown
// email surfaces storage.ErrUserNotFound to the handler.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	const op = "services.auth.ForgotPassword"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, jwt.TokenUseReset)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.mailer.SendPasswordResetEmail(user.Email, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
// Session tokens are rejected here, only reset-use tokens pass.
func (s *AuthService) ResetPassword(ctx context.Context, token, rawPassword string) error {
	const op = "services.auth.ResetPassword"

	claims, err := s.jwtMaker.ParseToken(token, jwt.TokenUseReset)
	if err != nil {
		return ErrInvalidToken
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.UpdatePasswordHash(ctx, claims.UserID, hashed); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
