package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

type SenseiInput struct {
	Name     string            `json:"name"`
	Username string            `json:"username"`
	Password string            `json:"password,omitempty"`
	DojoID   int               `json:"dojo_id"`
	Role     models.SenseiRole `json:"role"`
}

type SenseiService interface {
	Create(ctx context.Context, input SenseiInput) (*models.Sensei, error)
	List(ctx context.Context) ([]models.Sensei, error)
	Update(ctx context.Context, id int, input SenseiInput) (*models.Sensei, error)
	Delete(ctx context.Context, id int) error
}

type senseiService struct {
	senseiRepo repositories.SenseiRepository
	dojoRepo   repositories.DojoRepository
}

func NewSenseiService(senseiRepo repositories.SenseiRepository, dojoRepo repositories.DojoRepository) SenseiService {
	return &senseiService{senseiRepo: senseiRepo, dojoRepo: dojoRepo}
}

func (s *senseiService) Create(ctx context.Context, input SenseiInput) (*models.Sensei, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if _, err := s.dojoRepo.GetByID(ctx, input.DojoID); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleSensei
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	sensei := &models.Sensei{
		Name:         strings.TrimSpace(input.Name),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hashed),
		DojoID:       input.DojoID,
		Role:         role,
	}
	if err := s.senseiRepo.Create(ctx, sensei); err != nil {
		return nil, err
	}
	sensei.PasswordHash = ""
	return sensei, nil
}

func (s *senseiService) List(ctx context.Context) ([]models.Sensei, error) {
	senseis, err := s.senseiRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range senseis {
		senseis[i].PasswordHash = ""
	}
	return senseis, nil
}

func (s *senseiService) Update(ctx context.Context, id int, input SenseiInput) (*models.Sensei, error) {
	sensei, err := s.senseiRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		sensei.Name = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Username) != "" {
		sensei.Username = strings.TrimSpace(input.Username)
	}
	if input.DojoID != 0 {
		if _, err := s.dojoRepo.GetByID(ctx, input.DojoID); err != nil {
			return nil, err
		}
		sensei.DojoID = input.DojoID
	}
	if input.Role != "" {
		sensei.Role = input.Role
	}

	if err := s.senseiRepo.Update(ctx, sensei); err != nil {
		return nil, err
	}

	if input.Password != "" {
		if len(input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.senseiRepo.UpdatePasswordHash(ctx, id, string(hashed)); err != nil {
			return nil, err
		}
	}

	sensei.PasswordHash = ""
	return sensei, nil
}

func (s *senseiService) Delete(ctx context.Context, id int) error {
	return s.senseiRepo.Delete(ctx, id)
}
