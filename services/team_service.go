package services

import (
	"context"
	"strings"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

type TeamInput struct {
	Name       string           `json:"name"`
	CategoryID int              `json:"category_id"`
	MemberIDs  []int            `json:"member_ids"`
	State      models.TeamState `json:"state"`
}

type TeamService interface {
	Create(ctx context.Context, actor Actor, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, actor Actor) ([]models.Team, error)
	Update(ctx context.Context, actor Actor, id int, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, actor Actor, id int) error
}

type teamService struct {
	teamRepo     repositories.TeamRepository
	categoryRepo repositories.CategoryRepository
}

func NewTeamService(teamRepo repositories.TeamRepository, categoryRepo repositories.CategoryRepository) TeamService {
	return &teamService{teamRepo: teamRepo, categoryRepo: categoryRepo}
}

func (s *teamService) Create(ctx context.Context, actor Actor, input TeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Modality != models.ModalityTeam {
		return nil, ErrInvalidModality
	}

	state := input.State
	if state == "" {
		state = models.TeamStateDraft
	}

	team := &models.Team{
		Name:       strings.TrimSpace(input.Name),
		CategoryID: input.CategoryID,
		DojoID:     actor.DojoID,
		MemberIDs:  input.MemberIDs,
		State:      state,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return s.teamRepo.GetByID(ctx, team.ID)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return s.teamRepo.GetByID(ctx, id)
}

func (s *teamService) List(ctx context.Context, actor Actor) ([]models.Team, error) {
	if actor.IsAdmin() {
		return s.teamRepo.List(ctx, nil)
	}
	return s.teamRepo.List(ctx, &actor.DojoID)
}

func (s *teamService) Update(ctx context.Context, actor Actor, id int, input TeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && team.DojoID != actor.DojoID {
		return nil, ErrForbiddenOperation
	}

	if strings.TrimSpace(input.Name) != "" {
		team.Name = strings.TrimSpace(input.Name)
	}
	if input.CategoryID != 0 {
		category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.Modality != models.ModalityTeam {
			return nil, ErrInvalidModality
		}
		team.CategoryID = input.CategoryID
	}
	if input.MemberIDs != nil {
		team.MemberIDs = input.MemberIDs
	}
	if input.State != "" {
		team.State = input.State
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return s.teamRepo.GetByID(ctx, id)
}

func (s *teamService) Delete(ctx context.Context, actor Actor, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && team.DojoID != actor.DojoID {
		return ErrForbiddenOperation
	}
	return s.teamRepo.Delete(ctx, id)
}
