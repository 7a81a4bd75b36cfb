package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/repositories"
	"github.com/copa-samurai/tournament-api/services"
)

type fakeBracketService struct {
	report *services.GenerationReport
	view   *services.BracketView
	err    error

	gotBracketID int
	gotRound     int
	gotMatch     int
	gotInput     services.MatchResultInput
}

func (f *fakeBracketService) GenerateAll(_ context.Context, _ services.Actor) (*services.GenerationReport, error) {
	return f.report, f.err
}

func (f *fakeBracketService) List(_ context.Context, _ services.Actor) ([]services.BracketView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []services.BracketView{*f.view}, nil
}

func (f *fakeBracketService) GetByID(_ context.Context, id int) (*services.BracketView, error) {
	f.gotBracketID = id
	return f.view, f.err
}

func (f *fakeBracketService) GetByPublicToken(_ context.Context, token string) (*services.BracketView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeBracketService) RecordResult(_ context.Context, bracketID, round, match int, input services.MatchResultInput) (*services.BracketView, error) {
	f.gotBracketID = bracketID
	f.gotRound = round
	f.gotMatch = match
	f.gotInput = input
	return f.view, f.err
}

func (f *fakeBracketService) Reset(_ context.Context, bracketID int) (*services.BracketView, error) {
	f.gotBracketID = bracketID
	return f.view, f.err
}

func (f *fakeBracketService) SwapPairings(_ context.Context, bracketID int, _ []services.SwapInput) (*services.BracketView, error) {
	f.gotBracketID = bracketID
	return f.view, f.err
}

func (f *fakeBracketService) Reorder(_ context.Context, bracketID int, _ services.ReorderInput) (*services.BracketView, error) {
	f.gotBracketID = bracketID
	return f.view, f.err
}

func (f *fakeBracketService) Duplicate(_ context.Context, _ services.Actor, bracketID, targetCategoryID int) (*services.BracketView, error) {
	f.gotBracketID = bracketID
	return f.view, f.err
}

func (f *fakeBracketService) DeleteByCategory(_ context.Context, categoryID int) error {
	f.gotBracketID = categoryID
	return f.err
}

func testView() *services.BracketView {
	return &services.BracketView{
		Bracket: &models.Bracket{
			ID:          1,
			CategoryID:  1,
			Modality:    models.ModalityIndividual,
			PublicToken: "abc123",
			Status:      models.BracketStatusGenerated,
		},
		Competitors: map[int]services.CompetitorDisplay{},
	}
}

func bracketRouter(service services.BracketService) *chi.Mux {
	h := NewBracketHandler(service)
	router := chi.NewRouter()
	router.Post("/brackets/generate", h.GenerateAll)
	router.Get("/brackets/public/{token}", h.GetByPublicToken)
	router.Get("/brackets/{id}", h.GetByID)
	router.Put("/brackets/{id}/match/{round}/{match}", h.RecordResult)
	router.Delete("/brackets/{categoryID}", h.DeleteByCategory)
	return router
}

func TestGenerateAllReturnsReport(t *testing.T) {
	service := &fakeBracketService{report: &services.GenerationReport{
		Generated: []services.GeneratedBracket{{Category: "Kata Infantil", BracketID: 1, Competitors: 5, Rounds: 3}},
		Warnings:  []services.CategoryWarning{{Category: "Kumite Mayores", Message: "no eligible competitors registered"}},
		Errors:    []services.CategoryError{},
	}}
	router := bracketRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/brackets/generate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report services.GenerationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Generated, 1)
	assert.Equal(t, "Kata Infantil", report.Generated[0].Category)
	require.Len(t, report.Warnings, 1)
}

func TestRecordResultParsesParams(t *testing.T) {
	service := &fakeBracketService{view: testView()}
	router := bracketRouter(service)

	body := `{"winner_id":12,"tatami":3}`
	req := httptest.NewRequest(http.MethodPut, "/brackets/5/match/2/7", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, service.gotBracketID)
	assert.Equal(t, 2, service.gotRound)
	assert.Equal(t, 7, service.gotMatch)
	require.NotNil(t, service.gotInput.WinnerID)
	assert.Equal(t, 12, *service.gotInput.WinnerID)
	require.NotNil(t, service.gotInput.Tatami)
	assert.Equal(t, 3, *service.gotInput.Tatami)
}

func TestRecordResultRejectsBadParams(t *testing.T) {
	router := bracketRouter(&fakeBracketService{view: testView()})

	req := httptest.NewRequest(http.MethodPut, "/brackets/abc/match/1/1", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/brackets/1/match/0/1", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByPublicToken(t *testing.T) {
	service := &fakeBracketService{view: testView()}
	router := bracketRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/brackets/public/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"public_token":"abc123"`)

	missing := &fakeBracketService{err: repositories.ErrBracketNotFound}
	req = httptest.NewRequest(http.MethodGet, "/brackets/public/unknown", nil)
	rec = httptest.NewRecorder()
	bracketRouter(missing).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteByCategory(t *testing.T) {
	service := &fakeBracketService{}
	router := bracketRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/brackets/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 9, service.gotBracketID)
}
