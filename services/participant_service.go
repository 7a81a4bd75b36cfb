package services

import (
	"context"
	"strings"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

type ParticipantInput struct {
	Name       string               `json:"name"`
	Age        int                  `json:"age"`
	Gender     models.Gender        `json:"gender"`
	Grade      string               `json:"grade"`
	DojoID     int                  `json:"dojo_id"`
	Modalities models.ModalityFlags `json:"modalities"`
}

// Actor identifies who is making a request, for ownership checks:
// senseis may only manage participants of their own dojo.
type Actor struct {
	SenseiID int
	DojoID   int
	Role     models.SenseiRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type ParticipantService interface {
	Create(ctx context.Context, actor Actor, input ParticipantInput) (*models.Participant, error)
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context, actor Actor) ([]models.Participant, error)
	Update(ctx context.Context, actor Actor, id int, input ParticipantInput) (*models.Participant, error)
	Delete(ctx context.Context, actor Actor, id int) error
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
}

func NewParticipantService(participantRepo repositories.ParticipantRepository) ParticipantService {
	return &participantService{participantRepo: participantRepo}
}

func validateParticipantInput(input ParticipantInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.Age < 1 || input.Age > 100 {
		return ErrInvalidAgeRange
	}
	if input.Gender != models.GenderMale && input.Gender != models.GenderFemale {
		return ErrInvalidGender
	}
	if !models.ValidGrade(input.Grade) {
		return ErrInvalidGrade
	}
	return nil
}

func (s *participantService) Create(ctx context.Context, actor Actor, input ParticipantInput) (*models.Participant, error) {
	if err := validateParticipantInput(input); err != nil {
		return nil, err
	}

	dojoID := input.DojoID
	if !actor.IsAdmin() {
		// Senseis always register into their own dojo.
		dojoID = actor.DojoID
	}

	participant := &models.Participant{
		Name:        strings.TrimSpace(input.Name),
		Age:         input.Age,
		Gender:      input.Gender,
		Grade:       input.Grade,
		DojoID:      dojoID,
		CreatedByID: &actor.SenseiID,
		Modalities:  input.Modalities,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, err
	}
	return s.participantRepo.GetByID(ctx, participant.ID)
}

func (s *participantService) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	return s.participantRepo.GetByID(ctx, id)
}

func (s *participantService) List(ctx context.Context, actor Actor) ([]models.Participant, error) {
	if actor.IsAdmin() {
		return s.participantRepo.List(ctx, nil)
	}
	return s.participantRepo.List(ctx, &actor.DojoID)
}

func (s *participantService) Update(ctx context.Context, actor Actor, id int, input ParticipantInput) (*models.Participant, error) {
	if err := validateParticipantInput(input); err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && participant.DojoID != actor.DojoID {
		return nil, ErrForbiddenOperation
	}

	participant.Name = strings.TrimSpace(input.Name)
	participant.Age = input.Age
	participant.Gender = input.Gender
	participant.Grade = input.Grade
	participant.Modalities = input.Modalities
	if actor.IsAdmin() && input.DojoID != 0 {
		participant.DojoID = input.DojoID
	}

	if err := s.participantRepo.Update(ctx, participant); err != nil {
		return nil, err
	}
	return s.participantRepo.GetByID(ctx, id)
}

func (s *participantService) Delete(ctx context.Context, actor Actor, id int) error {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && participant.DojoID != actor.DojoID {
		return ErrForbiddenOperation
	}
	return s.participantRepo.Delete(ctx, id)
}
