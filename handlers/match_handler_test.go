package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// fakeMatchService returns canned values so the handler layer is tested in
// isolation from the services.
type fakeMatchService struct {
	match      *models.Match
	matches    []*models.Match
	err        error
	gotFilter  repositories.MatchFilter
	gotStatus  models.MatchStatus
	gotRole    models.ConfirmRole
	gotMatchID int
}

func (s *fakeMatchService) GetByID(_ context.Context, id int) (*models.Match, error) {
	s.gotMatchID = id
	return s.match, s.err
}

func (s *fakeMatchService) ListByTournament(_ context.Context, _ int, filter repositories.MatchFilter) ([]*models.Match, error) {
	s.gotFilter = filter
	return s.matches, s.err
}

func (s *fakeMatchService) UpdateStatus(_ context.Context, id int, next models.MatchStatus, _ int) (*models.Match, error) {
	s.gotMatchID = id
	s.gotStatus = next
	return s.match, s.err
}

func (s *fakeMatchService) Confirm(_ context.Context, id int, role models.ConfirmRole, _ int) (*models.Match, error) {
	s.gotMatchID = id
	s.gotRole = role
	return s.match, s.err
}

func (s *fakeMatchService) UpdateScore(_ context.Context, id int, _ services.UpdateScoreInput, _ int) (*models.Match, error) {
	s.gotMatchID = id
	return s.match, s.err
}

func newMatchRouter(h *MatchHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/matches/{matchID}", h.GetMatchHandler)
	router.Get("/tournaments/{tournamentID}/matches", h.ListTournamentMatchesHandler)
	return router
}

func TestGetMatchHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeMatchService{match: &models.Match{ID: 12, TournamentID: 1, Status: models.MatchStatusScheduled}}
		router := newMatchRouter(NewMatchHandler(svc))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/12", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 12, svc.gotMatchID)

		var body struct {
			Match models.Match `json:"match"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, 12, body.Match.ID)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeMatchService{err: services.ErrMatchNotFound}
		router := newMatchRouter(NewMatchHandler(svc))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/404", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		router := newMatchRouter(NewMatchHandler(&fakeMatchService{}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/abc", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTournamentMatchesFilter(t *testing.T) {
	svc := &fakeMatchService{matches: []*models.Match{}}
	router := newMatchRouter(NewMatchHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/tournaments/1/matches?status=completed&phase=group&group=A&round=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotFilter.Status)
	require.Equal(t, models.MatchStatusCompleted, *svc.gotFilter.Status)
	require.NotNil(t, svc.gotFilter.Phase)
	require.Equal(t, models.PhaseGroup, *svc.gotFilter.Phase)
	require.NotNil(t, svc.gotFilter.Group)
	require.Equal(t, "A", *svc.gotFilter.Group)
	require.NotNil(t, svc.gotFilter.Round)
	require.Equal(t, 2, *svc.gotFilter.Round)
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrInvalidStatusTransition, http.StatusConflict},
		{services.ErrMatchLocked, http.StatusConflict},
		{services.ErrMatchNotCompleted, http.StatusConflict},
		{services.ErrRoundNotComplete, http.StatusConflict},
		{services.ErrTournamentNameConflict, http.StatusConflict},
		{services.ErrValidationFailed, http.StatusUnprocessableEntity},
		{services.ErrInvalidEvent, http.StatusUnprocessableEntity},
		{services.ErrPenaltyScoreInconsistent, http.StatusUnprocessableEntity},
		{services.ErrInsufficientTeams, http.StatusUnprocessableEntity},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{fmt.Errorf("wrapped: %w", services.ErrUnevenBracket), http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", services.ErrMatchNotDecisive), http.StatusUnprocessableEntity},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mapServiceErrorToHTTP(rec, req, tt.err)
		require.Equal(t, tt.code, rec.Code, "error %v", tt.err)
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"completed","bogus":1}`))
	rec := httptest.NewRecorder()
	var dst updateMatchStatusRequest
	err := readJSON(rec, req, &dst)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown key")
}
