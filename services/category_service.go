package services

import (
	"context"
	"strings"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

// disciplineModalityColumns maps a category's discipline code to the
// participants column that flags registration for it. Only Individual
// disciplines appear here; team disciplines resolve through team rosters.
var disciplineModalityColumns = map[string]string{
	models.DisciplineKataIndividual:   "kata_individual",
	models.DisciplineKumiteIndividual: "kumite_individual",
	models.DisciplineKihonIppon:       "kihon_ippon",
}

var teamDisciplines = map[string]bool{
	models.DisciplineKataTeam:   true,
	models.DisciplineKumiteTeam: true,
}

func validDiscipline(code string) bool {
	if _, ok := disciplineModalityColumns[code]; ok {
		return true
	}
	return teamDisciplines[code]
}

type CategoryInput struct {
	Name           string                `json:"name"`
	DisciplineCode string                `json:"discipline_code"`
	AgeMin         int                   `json:"age_min"`
	AgeMax         int                   `json:"age_max"`
	Gender         models.CategoryGender `json:"gender"`
	Level          models.CategoryLevel  `json:"level"`
	Modality       models.Modality       `json:"modality"`
	Active         *bool                 `json:"active,omitempty"`
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context, onlyActive bool) ([]models.Category, error)
	Update(ctx context.Context, id int, input CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func validateCategoryInput(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if !validDiscipline(input.DisciplineCode) {
		return ErrInvalidDiscipline
	}
	if input.AgeMin < 0 || input.AgeMax < input.AgeMin {
		return ErrInvalidAgeRange
	}
	if !input.Modality.Valid() {
		return ErrInvalidModality
	}
	if teamDisciplines[input.DisciplineCode] != (input.Modality == models.ModalityTeam) {
		return ErrInvalidDiscipline
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	level := input.Level
	if level == "" {
		level = models.LevelOpen
	}
	gender := input.Gender
	if gender == "" {
		gender = models.CategoryGenderMixed
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	category := &models.Category{
		Name:           strings.TrimSpace(input.Name),
		DisciplineCode: input.DisciplineCode,
		AgeMin:         input.AgeMin,
		AgeMax:         input.AgeMax,
		Gender:         gender,
		Level:          level,
		Modality:       input.Modality,
		Active:         active,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, onlyActive)
}

func (s *categoryService) Update(ctx context.Context, id int, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.DisciplineCode = input.DisciplineCode
	category.AgeMin = input.AgeMin
	category.AgeMax = input.AgeMax
	if input.Gender != "" {
		category.Gender = input.Gender
	}
	if input.Level != "" {
		category.Level = input.Level
	}
	category.Modality = input.Modality
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int) error {
	return s.categoryRepo.Delete(ctx, id)
}
