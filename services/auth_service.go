package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

const minPasswordLength = 8

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.Sensei, error)
	ChangePassword(ctx context.Context, senseiID int, input ChangePasswordInput) error
}

type authService struct {
	senseiRepo repositories.SenseiRepository
}

func NewAuthService(senseiRepo repositories.SenseiRepository) AuthService {
	return &authService{senseiRepo: senseiRepo}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Sensei, error) {
	sensei, err := s.senseiRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrSenseiNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find sensei by username: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(sensei.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	sensei.PasswordHash = ""
	return sensei, nil
}

func (s *authService) ChangePassword(ctx context.Context, senseiID int, input ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	sensei, err := s.senseiRepo.GetByID(ctx, senseiID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sensei.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.senseiRepo.UpdatePasswordHash(ctx, senseiID, string(hashed))
}
