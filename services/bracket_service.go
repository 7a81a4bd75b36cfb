package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/copa-samurai/tournament-api/brackets"
	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
)

// GenerationReport is the outcome of a generate-all run. Generation is
// partial-failure tolerant: one category failing never aborts the batch.
type GenerationReport struct {
	Generated []GeneratedBracket `json:"generated"`
	Warnings  []CategoryWarning  `json:"warnings"`
	Errors    []CategoryError    `json:"errors"`
}

type GeneratedBracket struct {
	Category    string `json:"category"`
	BracketID   int    `json:"bracket_id"`
	Competitors int    `json:"competitors"`
	Rounds      int    `json:"rounds"`
}

type CategoryWarning struct {
	Category   string `json:"category"`
	Message    string `json:"message"`
	Competitor string `json:"competitor,omitempty"`
}

type CategoryError struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}

// CompetitorDisplay is the denormalized read-view snapshot attached to
// bracket responses so clients can label slots without extra lookups.
type CompetitorDisplay struct {
	Name     string   `json:"name"`
	DojoName string   `json:"dojo_name"`
	Grade    string   `json:"grade,omitempty"`
	Age      int      `json:"age,omitempty"`
	Members  []string `json:"members,omitempty"`
}

// BracketView is a bracket plus its category and the display data for
// every competitor referenced anywhere in its rounds, keyed by id.
type BracketView struct {
	*models.Bracket
	Competitors map[int]CompetitorDisplay `json:"competitors"`
}

type MatchResultInput struct {
	WinnerID *int    `json:"winner_id,omitempty"`
	Tatami   *int    `json:"tatami,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type SwapSlotInput struct {
	Round int `json:"round"`
	Match int `json:"match"`
	Slot  int `json:"slot"`
}

type SwapInput struct {
	A SwapSlotInput `json:"a"`
	B SwapSlotInput `json:"b"`
}

type ReorderInput struct {
	Round  int                `json:"round"`
	Orders []OrderChangeInput `json:"orders"`
}

type OrderChangeInput struct {
	MatchNumber int `json:"match_number"`
	NewOrder    int `json:"new_order"`
}

type BracketService interface {
	GenerateAll(ctx context.Context, actor Actor) (*GenerationReport, error)
	List(ctx context.Context, actor Actor) ([]BracketView, error)
	GetByID(ctx context.Context, id int) (*BracketView, error)
	GetByPublicToken(ctx context.Context, token string) (*BracketView, error)
	RecordResult(ctx context.Context, bracketID, roundNumber, matchNumber int, input MatchResultInput) (*BracketView, error)
	Reset(ctx context.Context, bracketID int) (*BracketView, error)
	SwapPairings(ctx context.Context, bracketID int, swaps []SwapInput) (*BracketView, error)
	Reorder(ctx context.Context, bracketID int, input ReorderInput) (*BracketView, error)
	Duplicate(ctx context.Context, actor Actor, bracketID, targetCategoryID int) (*BracketView, error)
	DeleteByCategory(ctx context.Context, categoryID int) error
}

type bracketService struct {
	bracketRepo     repositories.BracketRepository
	categoryRepo    repositories.CategoryRepository
	participantRepo repositories.ParticipantRepository
	teamRepo        repositories.TeamRepository
	logger          *slog.Logger

	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewBracketService wires the bracket engine to persistence. rng drives
// seeding; pass a fixed-seed source in tests for reproducible brackets,
// or nil to seed from crypto-quality entropy.
func NewBracketService(
	bracketRepo repositories.BracketRepository,
	categoryRepo repositories.CategoryRepository,
	participantRepo repositories.ParticipantRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
	rng *mathrand.Rand,
) BracketService {
	if rng == nil {
		var seed [8]byte
		if _, err := rand.Read(seed[:]); err == nil {
			var s int64
			for _, b := range seed {
				s = s<<8 | int64(b)
			}
			rng = mathrand.New(mathrand.NewSource(s))
		} else {
			rng = mathrand.New(mathrand.NewSource(1))
		}
	}
	return &bracketService{
		bracketRepo:     bracketRepo,
		categoryRepo:    categoryRepo,
		participantRepo: participantRepo,
		teamRepo:        teamRepo,
		logger:          logger,
		rng:             rng,
	}
}

func generatePublicToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to
		// the seeding source rather than panic in a request path.
		for i := range buf {
			buf[i] = byte(mathrand.Int())
		}
	}
	return hex.EncodeToString(buf)
}

func (s *bracketService) GenerateAll(ctx context.Context, actor Actor) (*GenerationReport, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	categories, err := s.categoryRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}

	report := &GenerationReport{
		Generated: []GeneratedBracket{},
		Warnings:  []CategoryWarning{},
		Errors:    []CategoryError{},
	}

	for _, category := range categories {
		if err := s.generateForCategory(ctx, actor, category, report); err != nil {
			report.Errors = append(report.Errors, CategoryError{
				Category: category.Name,
				Error:    err.Error(),
			})
			s.logger.Error("bracket generation failed",
				slog.String("category", category.Name), slog.Any("error", err))
		}
	}
	return report, nil
}

// generateForCategory handles one category as an isolated unit of work.
// Returned errors go into the report; warnings are appended directly.
func (s *bracketService) generateForCategory(ctx context.Context, actor Actor, category models.Category, report *GenerationReport) error {
	_, err := s.bracketRepo.GetByCategoryID(ctx, category.ID)
	if err == nil {
		report.Warnings = append(report.Warnings, CategoryWarning{
			Category: category.Name,
			Message:  "a bracket already exists for this category",
		})
		return nil
	}
	if !errors.Is(err, repositories.ErrBracketNotFound) {
		return err
	}

	competitors, names, err := s.eligibleCompetitors(ctx, category)
	if err != nil {
		return err
	}

	switch len(competitors) {
	case 0:
		report.Warnings = append(report.Warnings, CategoryWarning{
			Category: category.Name,
			Message:  "no eligible competitors registered",
		})
		return nil
	case 1:
		report.Warnings = append(report.Warnings, CategoryWarning{
			Category:   category.Name,
			Message:    "only one competitor registered",
			Competitor: names[competitors[0].ID],
		})
		return nil
	}

	s.mu.Lock()
	seeded := brackets.SeedOrder(competitors, s.rng)
	s.mu.Unlock()

	rounds, err := brackets.Generate(seeded, category.Modality)
	if err != nil {
		return err
	}

	bracket := &models.Bracket{
		CategoryID:       category.ID,
		Modality:         category.Modality,
		PublicToken:      generatePublicToken(),
		Rounds:           rounds,
		TotalCompetitors: len(competitors),
		Status:           models.BracketStatusGenerated,
		CreatedByID:      actor.SenseiID,
	}
	if err := s.bracketRepo.Create(ctx, bracket); err != nil {
		if errors.Is(err, repositories.ErrBracketCategoryConflict) {
			// Lost a race with a concurrent generate-all; same outcome as
			// the existence check above.
			report.Warnings = append(report.Warnings, CategoryWarning{
				Category: category.Name,
				Message:  "a bracket already exists for this category",
			})
			return nil
		}
		return err
	}

	report.Generated = append(report.Generated, GeneratedBracket{
		Category:    category.Name,
		BracketID:   bracket.ID,
		Competitors: len(competitors),
		Rounds:      len(rounds),
	})
	s.logger.Info("bracket generated",
		slog.String("category", category.Name),
		slog.Int("bracket_id", bracket.ID),
		slog.Int("competitors", len(competitors)))
	return nil
}

// eligibleCompetitors resolves the category's competitor pool: registered
// participants filtered by discipline, age, gender and grade band for
// Individual categories; active rosters for team categories. The returned
// map carries display names for warning messages.
func (s *bracketService) eligibleCompetitors(ctx context.Context, category models.Category) ([]brackets.Competitor, map[int]string, error) {
	names := make(map[int]string)

	if category.Modality == models.ModalityTeam {
		teams, err := s.teamRepo.ListActiveByCategory(ctx, category.ID)
		if err != nil {
			return nil, nil, err
		}
		competitors := make([]brackets.Competitor, 0, len(teams))
		for _, t := range teams {
			competitors = append(competitors, brackets.Competitor{ID: t.ID, DojoID: t.DojoID})
			names[t.ID] = t.Name
		}
		return competitors, names, nil
	}

	column, ok := disciplineModalityColumns[category.DisciplineCode]
	if !ok {
		return nil, nil, ErrInvalidDiscipline
	}

	filter := repositories.EligibilityFilter{
		ModalityColumn: column,
		AgeMin:         category.AgeMin,
		AgeMax:         category.AgeMax,
	}
	if category.Gender != models.CategoryGenderMixed {
		gender := models.Gender(category.Gender)
		filter.Gender = &gender
	}
	switch category.Level {
	case models.LevelNovice:
		filter.Grades = models.NoviceGrades
	case models.LevelAdvanced:
		filter.Grades = models.AdvancedGrades
	}

	participants, err := s.participantRepo.ListEligible(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	competitors := make([]brackets.Competitor, 0, len(participants))
	for _, p := range participants {
		competitors = append(competitors, brackets.Competitor{ID: p.ID, DojoID: p.DojoID})
		names[p.ID] = p.Name
	}
	return competitors, names, nil
}

func (s *bracketService) List(ctx context.Context, actor Actor) ([]BracketView, error) {
	all, err := s.bracketRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		all, err = s.filterByDojo(ctx, all, actor.DojoID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]BracketView, 0, len(all))
	for i := range all {
		view, err := s.buildView(ctx, &all[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// filterByDojo keeps only brackets in which one of the dojo's
// participants or teams appears in some slot.
func (s *bracketService) filterByDojo(ctx context.Context, all []models.Bracket, dojoID int) ([]models.Bracket, error) {
	var participantIDs, teamIDs []int

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.participantRepo.ListIDsByDojo(gCtx, dojoID)
		participantIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := s.teamRepo.ListIDsByDojo(gCtx, dojoID)
		teamIDs = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	members := make(map[models.CompetitorRef]bool)
	for _, id := range participantIDs {
		members[models.CompetitorRef{Type: models.CompetitorParticipant, ID: id}] = true
	}
	for _, id := range teamIDs {
		members[models.CompetitorRef{Type: models.CompetitorTeam, ID: id}] = true
	}

	filtered := make([]models.Bracket, 0, len(all))
	for _, b := range all {
		if bracketContainsAny(&b, members) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func bracketContainsAny(b *models.Bracket, members map[models.CompetitorRef]bool) bool {
	for _, round := range b.Rounds {
		for _, match := range round.Matches {
			if match.Competitor1.Filled() && members[*match.Competitor1.Competitor] {
				return true
			}
			if match.Competitor2.Filled() && members[*match.Competitor2.Competitor] {
				return true
			}
		}
	}
	return false
}

func (s *bracketService) GetByID(ctx context.Context, id int) (*BracketView, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, bracket)
}

func (s *bracketService) GetByPublicToken(ctx context.Context, token string) (*BracketView, error) {
	bracket, err := s.bracketRepo.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, bracket)
}

// buildView attaches the category and the display snapshot of every
// competitor referenced by the rounds. Lookups run in parallel.
func (s *bracketService) buildView(ctx context.Context, bracket *models.Bracket) (*BracketView, error) {
	participantIDs, teamIDs := referencedCompetitors(bracket)

	view := &BracketView{
		Bracket:     bracket,
		Competitors: make(map[int]CompetitorDisplay),
	}

	var participants []models.Participant
	var teams []models.Team

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		category, err := s.categoryRepo.GetByID(gCtx, bracket.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to load bracket category: %w", err)
		}
		bracket.Category = category
		return nil
	})
	if len(participantIDs) > 0 {
		g.Go(func() error {
			var err error
			participants, err = s.participantRepo.ListByIDs(gCtx, participantIDs)
			return err
		})
	}
	if len(teamIDs) > 0 {
		g.Go(func() error {
			var err error
			teams, err = s.teamRepo.ListByIDs(gCtx, teamIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range participants {
		display := CompetitorDisplay{Name: p.Name, Grade: p.Grade, Age: p.Age}
		if p.Dojo != nil {
			display.DojoName = p.Dojo.Name
		}
		view.Competitors[p.ID] = display
	}
	for _, t := range teams {
		display := CompetitorDisplay{Name: t.Name}
		if t.Dojo != nil {
			display.DojoName = t.Dojo.Name
		}
		for _, m := range t.Members {
			display.Members = append(display.Members, m.Name)
		}
		view.Competitors[t.ID] = display
	}
	return view, nil
}

func referencedCompetitors(b *models.Bracket) (participantIDs, teamIDs []int) {
	seen := make(map[models.CompetitorRef]bool)
	collect := func(ref *models.CompetitorRef) {
		if ref == nil || seen[*ref] {
			return
		}
		seen[*ref] = true
		if ref.Type == models.CompetitorTeam {
			teamIDs = append(teamIDs, ref.ID)
		} else {
			participantIDs = append(participantIDs, ref.ID)
		}
	}
	for _, round := range b.Rounds {
		for _, match := range round.Matches {
			collect(match.Competitor1.Competitor)
			collect(match.Competitor2.Competitor)
			collect(match.Winner)
		}
	}
	return participantIDs, teamIDs
}

// mutate runs a read-modify-write cycle over the whole bracket document.
// The repository's version check turns concurrent edits into
// ErrBracketEditConflict instead of lost updates.
func (s *bracketService) mutate(ctx context.Context, bracketID int, fn func(*models.Bracket) error) (*BracketView, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	if err := fn(bracket); err != nil {
		return nil, err
	}
	if err := s.bracketRepo.UpdateDocument(ctx, bracket); err != nil {
		if errors.Is(err, repositories.ErrBracketVersionConflict) {
			return nil, ErrBracketEditConflict
		}
		return nil, err
	}
	return s.buildView(ctx, bracket)
}

func (s *bracketService) RecordResult(ctx context.Context, bracketID, roundNumber, matchNumber int, input MatchResultInput) (*BracketView, error) {
	return s.mutate(ctx, bracketID, func(b *models.Bracket) error {
		err := brackets.RecordResult(b, roundNumber, matchNumber, brackets.Result{
			WinnerID: input.WinnerID,
			Tatami:   input.Tatami,
			Notes:    input.Notes,
		})
		return mapEngineError(err)
	})
}

func (s *bracketService) Reset(ctx context.Context, bracketID int) (*BracketView, error) {
	return s.mutate(ctx, bracketID, func(b *models.Bracket) error {
		brackets.Reset(b)
		return nil
	})
}

func (s *bracketService) SwapPairings(ctx context.Context, bracketID int, swaps []SwapInput) (*BracketView, error) {
	engineSwaps := make([]brackets.Swap, 0, len(swaps))
	for _, swap := range swaps {
		engineSwaps = append(engineSwaps, brackets.Swap{
			A: brackets.SlotRef{Round: swap.A.Round, Match: swap.A.Match, Slot: swap.A.Slot},
			B: brackets.SlotRef{Round: swap.B.Round, Match: swap.B.Match, Slot: swap.B.Slot},
		})
	}
	return s.mutate(ctx, bracketID, func(b *models.Bracket) error {
		return mapEngineError(brackets.ApplySwaps(b, engineSwaps))
	})
}

func (s *bracketService) Reorder(ctx context.Context, bracketID int, input ReorderInput) (*BracketView, error) {
	changes := make([]brackets.OrderChange, 0, len(input.Orders))
	for _, order := range input.Orders {
		changes = append(changes, brackets.OrderChange{
			MatchNumber: order.MatchNumber,
			NewOrder:    order.NewOrder,
		})
	}
	return s.mutate(ctx, bracketID, func(b *models.Bracket) error {
		return mapEngineError(brackets.Reorder(b, input.Round, changes))
	})
}

func (s *bracketService) Duplicate(ctx context.Context, actor Actor, bracketID, targetCategoryID int) (*BracketView, error) {
	if targetCategoryID == 0 {
		return nil, ErrTargetCategoryNeeded
	}

	original, err := s.bracketRepo.GetByID(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, targetCategoryID); err != nil {
		return nil, err
	}

	_, err = s.bracketRepo.GetByCategoryID(ctx, targetCategoryID)
	if err == nil {
		return nil, ErrBracketAlreadyExists
	}
	if !errors.Is(err, repositories.ErrBracketNotFound) {
		return nil, err
	}

	rounds, err := deepCopyRounds(original.Rounds)
	if err != nil {
		return nil, err
	}

	duplicate := &models.Bracket{
		CategoryID:       targetCategoryID,
		Modality:         original.Modality,
		PublicToken:      generatePublicToken(),
		Rounds:           rounds,
		TotalCompetitors: original.TotalCompetitors,
		Status:           original.Status,
		CreatedByID:      actor.SenseiID,
	}
	if err := s.bracketRepo.Create(ctx, duplicate); err != nil {
		if errors.Is(err, repositories.ErrBracketCategoryConflict) {
			return nil, ErrBracketAlreadyExists
		}
		return nil, err
	}
	return s.buildView(ctx, duplicate)
}

func deepCopyRounds(rounds []models.Round) ([]models.Round, error) {
	encoded, err := json.Marshal(rounds)
	if err != nil {
		return nil, fmt.Errorf("failed to copy bracket rounds: %w", err)
	}
	var copied []models.Round
	if err := json.Unmarshal(encoded, &copied); err != nil {
		return nil, fmt.Errorf("failed to copy bracket rounds: %w", err)
	}
	return copied, nil
}

func (s *bracketService) DeleteByCategory(ctx context.Context, categoryID int) error {
	return s.bracketRepo.DeleteByCategoryID(ctx, categoryID)
}

func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, brackets.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, brackets.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, brackets.ErrWinnerNotSeated):
		return ErrWinnerNotInMatch
	case errors.Is(err, brackets.ErrInvalidSlot):
		return ErrSlotOutOfRange
	default:
		return err
	}
}
