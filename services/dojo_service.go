package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
	"github.com/copa-samurai/tournament-api/storage"
)

type DojoInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type DojoService interface {
	Create(ctx context.Context, input DojoInput) (*models.Dojo, error)
	GetByID(ctx context.Context, id int) (*models.Dojo, error)
	List(ctx context.Context) ([]models.Dojo, error)
	Update(ctx context.Context, id int, input DojoInput) (*models.Dojo, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, contentType string, logo io.Reader) (*models.Dojo, error)
}

type dojoService struct {
	dojoRepo repositories.DojoRepository
	uploader storage.FileUploader
}

func NewDojoService(dojoRepo repositories.DojoRepository, uploader storage.FileUploader) DojoService {
	return &dojoService{dojoRepo: dojoRepo, uploader: uploader}
}

func (s *dojoService) Create(ctx context.Context, input DojoInput) (*models.Dojo, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, ErrNameRequired
	}
	dojo := &models.Dojo{
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
	}
	if err := s.dojoRepo.Create(ctx, dojo); err != nil {
		return nil, err
	}
	return dojo, nil
}

func (s *dojoService) GetByID(ctx context.Context, id int) (*models.Dojo, error) {
	dojo, err := s.dojoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachLogoURL(dojo)
	return dojo, nil
}

func (s *dojoService) List(ctx context.Context) ([]models.Dojo, error) {
	dojos, err := s.dojoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range dojos {
		s.attachLogoURL(&dojos[i])
	}
	return dojos, nil
}

func (s *dojoService) Update(ctx context.Context, id int, input DojoInput) (*models.Dojo, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, ErrNameRequired
	}
	dojo, err := s.dojoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dojo.Name = strings.TrimSpace(input.Name)
	dojo.Location = strings.TrimSpace(input.Location)
	if err := s.dojoRepo.Update(ctx, dojo); err != nil {
		return nil, err
	}
	s.attachLogoURL(dojo)
	return dojo, nil
}

func (s *dojoService) Delete(ctx context.Context, id int) error {
	dojo, err := s.dojoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dojoRepo.Delete(ctx, id); err != nil {
		return err
	}
	if dojo.LogoKey != nil && s.uploader != nil {
		// Best effort: the row is gone, a stale object is harmless.
		_ = s.uploader.Delete(ctx, *dojo.LogoKey)
	}
	return nil
}

func (s *dojoService) UploadLogo(ctx context.Context, id int, contentType string, logo io.Reader) (*models.Dojo, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}
	dojo, err := s.dojoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := "png"
	if strings.Contains(contentType, "jpeg") {
		ext = "jpg"
	}
	key := fmt.Sprintf("dojos/%d/logo.%s", id, ext)

	result, err := s.uploader.Upload(ctx, key, contentType, logo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload dojo logo: %w", err)
	}

	if err := s.dojoRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	dojo.LogoKey = &result.Key
	s.attachLogoURL(dojo)
	return dojo, nil
}

func (s *dojoService) attachLogoURL(dojo *models.Dojo) {
	if dojo.LogoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*dojo.LogoKey)
		dojo.LogoURL = &url
	}
}
