package usecase

import (
	"context"
	"strings"
	"time"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/infrastructure/auth"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/logger"
)

const minUsernameLength = 3

const passwordPolicyMessage = "Password must be 8-16 characters and include upper case, lower case and a number"

type AuthUseCase struct {
	userRepo      repository.UserRepository
	tokens        TokenIssuer
	adminUsername string
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer, adminUsername string) *AuthUseCase {
	return &AuthUseCase{
		userRepo:      userRepo,
		tokens:        tokens,
		adminUsername: adminUsername,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if len([]rune(username)) < minUsernameLength {
		return nil, errors.BadRequest("Username must be at least 3 characters", nil)
	}
	if !auth.ValidatePasswordPolicy(input.Password) {
		return nil, errors.BadRequest(passwordPolicyMessage, nil)
	}

	if existing, err := uc.userRepo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.Conflict("Username already exists")
	} else if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	now := time.Now()
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Role:         entity.RoleForUsername(username, uc.adminUsername),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered: %s (role %s)", user.Username, user.Role)
	return uc.issue(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Invalid username or password", nil)
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		logger.Debug("Login failed for %s", user.Username)
		return nil, errors.Unauthorized("Invalid username or password", nil)
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return errors.BadRequest("Current password is incorrect", nil)
	}
	if currentPassword == newPassword {
		return errors.BadRequest("New password must be different from the current password", nil)
	}
	if !auth.ValidatePasswordPolicy(newPassword) {
		return errors.BadRequest(passwordPolicyMessage, nil)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}
	return uc.userRepo.UpdatePassword(ctx, username, hash)
}

func (uc *AuthUseCase) GetUser(ctx context.Context, username string) (*entity.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := uc.tokens.GenerateToken(user)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
