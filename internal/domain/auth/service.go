package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/tx"
	"kiosko/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// CreateUserRequest describes a new account.
type CreateUserRequest struct {
	Username string
	Password string
	Role     Role
}

// Service provides authentication and account management.
type Service struct {
	userRepo   UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	ids        id.Generator
	clock      clock.Clock
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	ids id.Generator,
	clk clock.Clock,
	config ServiceConfig,
) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
		ids:        ids,
		clock:      clk,
		config:     config,
	}
}

// CreateUser creates an account. Usernames are unique.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	if len(req.Password) < s.config.PasswordMinLength {
		return User{}, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := NewUser(s.ids.New(), req.Username, string(passwordHash), req.Role, s.clock.Now())
	if err != nil {
		return User{}, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil {
			return apperror.NewDuplicate("user", "username", user.Username)
		} else if !apperror.IsNotFound(err) {
			return err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login authenticates the user and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (Token, User, error) {
	now := s.clock.Now()

	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Token{}, User{}, apperror.NewUnauthorized("invalid credentials")
		}
		return Token{}, User{}, err
	}
	if err := user.CanLogin(now); err != nil {
		return Token{}, User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if _, uerr := s.userRepo.Update(ctx, user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration, now)); uerr != nil {
			logger.Warn(ctx, "failed to record failed login", "user_id", user.ID, "error", uerr)
		}
		return Token{}, User{}, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user, now)
	if err != nil {
		return Token{}, User{}, fmt.Errorf("generate access token: %w", err)
	}

	if updated, err := s.userRepo.Update(ctx, user.RecordSuccessfulLogin(now)); err != nil {
		logger.Warn(ctx, "failed to record login", "user_id", user.ID, "error", err)
	} else {
		user = updated
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return Token{AccessToken: accessToken, ExpiresAt: expiresAt, TokenType: "Bearer"}, user, nil
}

// GetUserByID returns the user or NotFound.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListUsers lists all accounts ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.userRepo.List(ctx)
}

// DeactivateUser disables an account.
func (s *Service) DeactivateUser(ctx context.Context, userID id.ID) (User, error) {
	var out User
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		out, err = s.userRepo.Update(ctx, u.Deactivate(s.clock.Now()))
		return err
	})
	return out, err
}
