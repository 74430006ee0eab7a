package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	"github.com/Dosada05/fixture-engine/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

// NewAuthService: bcryptCost 0 means bcrypt.DefaultCost.
func NewAuthService(userRepo repositories.UserRepository, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register creates an organizer account.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, ErrNameRequired
	}
	if !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleOrganizer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	user.PasswordHash = ""
	return user, nil
}
