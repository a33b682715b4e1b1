package handlers

import (
	"net/http"
	"strconv"

	"github.com/Manecharo/verzot-sub000/middleware"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListTournamentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, matchFilterFromQuery(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateMatchStatusRequest struct {
	Status models.MatchStatus `json:"status"`
}

func (h *MatchHandler) UpdateMatchStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req updateMatchStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	match, err := h.matchService.UpdateStatus(r.Context(), id, req.Status, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateMatchScoreRequest struct {
	HomeScore         int  `json:"home_score"`
	AwayScore         int  `json:"away_score"`
	HalfTimeHomeScore *int `json:"half_time_home_score"`
	HalfTimeAwayScore *int `json:"half_time_away_score"`
	HasPenalties      bool `json:"has_penalties"`
	HomePenaltyScore  *int `json:"home_penalty_score"`
	AwayPenaltyScore  *int `json:"away_penalty_score"`
}

func (h *MatchHandler) UpdateMatchScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req updateMatchScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	match, err := h.matchService.UpdateScore(r.Context(), id, services.UpdateScoreInput{
		HomeScore:         req.HomeScore,
		AwayScore:         req.AwayScore,
		HalfTimeHomeScore: req.HalfTimeHomeScore,
		HalfTimeAwayScore: req.HalfTimeAwayScore,
		HasPenalties:      req.HasPenalties,
		HomePenaltyScore:  req.HomePenaltyScore,
		AwayPenaltyScore:  req.AwayPenaltyScore,
	}, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type confirmMatchRequest struct {
	Role models.ConfirmRole `json:"role"`
}

func (h *MatchHandler) ConfirmMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req confirmMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	match, err := h.matchService.Confirm(r.Context(), id, req.Role, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"match":           match,
		"fully_confirmed": match.FullyConfirmed(),
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchFilterFromQuery(r *http.Request) repositories.MatchFilter {
	var filter repositories.MatchFilter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := models.MatchStatus(v)
		filter.Status = &status
	}
	if v := q.Get("phase"); v != "" {
		phase := models.MatchPhase(v)
		filter.Phase = &phase
	}
	if v := q.Get("group"); v != "" {
		group := v
		filter.Group = &group
	}
	if v := q.Get("round"); v != "" {
		if round, err := strconv.Atoi(v); err == nil {
			filter.Round = &round
		}
	}
	return filter
}
